// A command line tool to parse scientific computation logs
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/outparse/outparse"
)

var rootCmd = struct {
	cobra.Command
	mode     string
	patterns string
}{
	Command: cobra.Command{
		Use:   "outparse",
		Short: "Parse scientific computation logs into typed, positioned blocks",
		Long: `outparse applies an ordered table of pattern passes to the raw text
output of scientific computation runs. Claimed text becomes typed,
positioned blocks; everything else stays visible as Unknown blocks.
The result can be listed, exported to SQLite or rendered to an
annotated HTML document.`,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootCmd.mode, "mode", "m", "orca",
		"Select the pattern preset (orca, gpaw)")
	rootCmd.PersistentFlags().StringVarP(&rootCmd.patterns, "patterns", "p", "",
		"Load a custom pattern configuration file instead of the preset")
}

// newSession builds a session for the file argument, "" or "-" reading
// stdin.
func newSession(file string) (*outparse.Session, error) {
	var (
		text []byte
		err  error
	)
	if file == "" || file == "-" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}
	var set *outparse.Settings
	if rootCmd.patterns != "" {
		set, err = outparse.LoadSettingsFile(
			rootCmd.patterns, rootCmd.mode, outparse.DefaultExtractors())
	} else {
		set, err = outparse.SettingsForMode(rootCmd.mode)
	}
	if err != nil {
		return nil, err
	}
	return outparse.NewSession(string(text), set), nil
}

func arg0(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

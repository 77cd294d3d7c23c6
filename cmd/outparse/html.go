package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/outparse/outparse"
)

var htmlCmd = struct {
	cobra.Command
	out    string
	title  string
	noCSS  bool
	noJS   bool
	noTOC  bool
	noCmts bool
	minify bool
}{
	Command: cobra.Command{
		Use:   "html [file]",
		Short: "Render a log file to an annotated HTML document",
		Args:  cobra.MaximumNArgs(1),
	},
}

func init() {
	htmlCmd.Run = renderHTML
	htmlCmd.Flags().StringVarP(&htmlCmd.out, "out", "o", "",
		"Write the document to a file instead of stdout")
	htmlCmd.Flags().StringVar(&htmlCmd.title, "title", "",
		"Set the document title")
	htmlCmd.Flags().BoolVar(&htmlCmd.noCSS, "no-css", false,
		"Omit the embedded style block")
	htmlCmd.Flags().BoolVar(&htmlCmd.noJS, "no-js", false,
		"Omit the embedded script block")
	htmlCmd.Flags().BoolVar(&htmlCmd.noTOC, "no-toc", false,
		"Omit the table-of-contents sidebar")
	htmlCmd.Flags().BoolVar(&htmlCmd.noCmts, "no-comments", false,
		"Omit the comment sidebar")
	htmlCmd.Flags().BoolVar(&htmlCmd.minify, "minify", false,
		"Minify the document")
	rootCmd.AddCommand(&htmlCmd.Command)
}

func renderHTML(cmd *cobra.Command, args []string) {
	s, err := newSession(arg0(args))
	if err != nil {
		log.Fatal(err)
	}
	cfg := outparse.HTMLConfig{
		Title:          htmlCmd.title,
		InsertCSS:      !htmlCmd.noCSS,
		InsertJS:       !htmlCmd.noJS,
		LeftSidebar:    !htmlCmd.noTOC,
		CommentSidebar: !htmlCmd.noCmts,
		Minify:         htmlCmd.minify,
	}
	doc, err := s.HTML(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if htmlCmd.out == "" {
		os.Stdout.WriteString(doc)
		return
	}
	if err = os.WriteFile(htmlCmd.out, []byte(doc), 0666); err != nil {
		log.Fatal(err)
	}
}

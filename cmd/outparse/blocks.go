package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/outparse/outparse"
	"github.com/outparse/outparse/blockdb"
)

var blocksCmd = struct {
	cobra.Command
	typ      string
	name     string
	contains []string
	excludes []string
	byPos    bool
	extract  bool
	db       string
}{
	Command: cobra.Command{
		Use:   "blocks [file]",
		Short: "List the classified blocks of a log file",
		Args:  cobra.MaximumNArgs(1),
	},
}

func init() {
	blocksCmd.Run = listBlocks
	blocksCmd.Flags().StringVarP(&blocksCmd.typ, "type", "t", "",
		"Keep only blocks of this type tag")
	blocksCmd.Flags().StringVarP(&blocksCmd.name, "name", "n", "",
		"Keep only blocks with this readable name")
	blocksCmd.Flags().StringArrayVarP(&blocksCmd.contains, "contains", "c", nil,
		"Keep only blocks containing every given substring")
	blocksCmd.Flags().StringArrayVarP(&blocksCmd.excludes, "excludes", "x", nil,
		"Drop blocks containing any given substring")
	blocksCmd.Flags().BoolVar(&blocksCmd.byPos, "by-position", false,
		"Sort rows by source position instead of classification order")
	blocksCmd.Flags().BoolVarP(&blocksCmd.extract, "extract", "e", false,
		"Extract per-block values")
	blocksCmd.Flags().StringVar(&blocksCmd.db, "db", "",
		"Additionally export all blocks to this SQLite file")
	rootCmd.AddCommand(&blocksCmd.Command)
}

func listBlocks(cmd *cobra.Command, args []string) {
	s, err := newSession(arg0(args))
	if err != nil {
		log.Fatal(err)
	}
	q := outparse.Query{
		Type:         blocksCmd.typ,
		ReadableName: blocksCmd.name,
		RawAllOf:     blocksCmd.contains,
		RawNoneOf:    blocksCmd.excludes,
	}
	rows, err := s.Search(q)
	if err != nil {
		log.Fatal(err)
	}
	if blocksCmd.byPos {
		outparse.SortByPosition(rows)
	}

	var xs map[int]outparse.Extraction
	if blocksCmd.extract {
		ex, err := s.Extract(q)
		if err != nil {
			log.Fatal(err)
		}
		xs = make(map[int]outparse.Extraction, len(ex))
		for _, x := range ex {
			xs[x.Row.ID] = x
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBTYPE\tNAME\tCHARS\tLINES\tDATA")
	for _, r := range rows {
		data := ""
		if x, ok := xs[r.ID]; ok {
			data = formatData(x)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d-%d\t%d-%d\t%s\n",
			r.ID, r.Subtype, r.Name,
			r.Pos.Char.Start, r.Pos.Char.End,
			r.Pos.Line.Start, r.Pos.Line.End,
			data)
	}
	w.Flush()

	if blocksCmd.db != "" {
		st, err := blockdb.Open(blocksCmd.db)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()
		if err = s.Export(st); err != nil {
			log.Fatal(err)
		}
	}
}

func formatData(x outparse.Extraction) string {
	switch {
	case x.Diag != "":
		return "! " + x.Diag
	case x.Data == nil:
		return ""
	}
	keys := make([]string, 0, len(x.Data.Values))
	for k := range x.Data.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, x.Data.Values[k]))
	}
	if x.Data.Comment != "" {
		parts = append(parts, "("+x.Data.Comment+")")
	}
	return strings.Join(parts, " ")
}

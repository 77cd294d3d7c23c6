package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/outparse/outparse"
)

var serveCmd = struct {
	cobra.Command
	addr string
}{
	Command: cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the annotated HTML document of a log file",
		Args:  cobra.MaximumNArgs(1),
	},
}

func init() {
	serveCmd.Run = serveDoc
	serveCmd.Flags().StringVarP(&serveCmd.addr, "addr", "a", ":8417",
		"Listen address")
	rootCmd.AddCommand(&serveCmd.Command)
}

func serveDoc(cmd *cobra.Command, args []string) {
	s, err := newSession(arg0(args))
	if err != nil {
		log.Fatal(err)
	}
	// Classify once up front; rendering per request only walks the
	// frozen state.
	if err = s.Initialize(); err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		cfg := outparse.DefaultHTMLConfig()
		cfg.Minify = req.URL.Query().Get("minify") == "1"
		doc, err := s.HTML(cfg)
		if err != nil {
			slog.Error("render document", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(doc))
	})

	slog.Info("serving annotated document", "addr", serveCmd.addr)
	if err = http.ListenAndServe(serveCmd.addr, r); err != nil {
		log.Fatal(err)
	}
}

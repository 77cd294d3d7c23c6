package outparse

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
)

// Default style and script assets embedded into rendered documents.
var (
	//go:embed assets/default.css
	DefaultCSS string
	//go:embed assets/default.js
	DefaultJS string
)

// HTMLConfig controls the document skeleton around the rendered
// element sequence. The zero value renders the bare skeleton; use
// DefaultHTMLConfig for the full annotated document.
type HTMLConfig struct {
	// Title of the document; defaults to the session mode.
	Title string
	// CSS and JS override the embedded default assets when non-empty.
	CSS, JS string
	// InsertCSS embeds a style block into the document head.
	InsertCSS bool
	// InsertJS embeds a script block at the end of the body.
	InsertJS bool
	// LeftSidebar adds the table-of-contents placeholder.
	LeftSidebar bool
	// CommentSidebar adds the color-comment placeholder.
	CommentSidebar bool
	// Minify the assembled document.
	Minify bool
}

func DefaultHTMLConfig() HTMLConfig {
	return HTMLConfig{
		InsertCSS: true, InsertJS: true,
		LeftSidebar: true, CommentSidebar: true,
	}
}

// RenderError reports a failing element render. Rendering is
// all-or-nothing: a broken element output would corrupt the document's
// positional integrity, so there is no safe partial result.
type RenderError struct {
	ID   int
	Name string
	Pos  Position
	err  error
}

func (e RenderError) Error() string {
	return fmt.Sprintf("render element %d (%s) at %d-%d: %s",
		e.ID, e.Name, e.Pos.Char.Start, e.Pos.Char.End, e.err)
}

func (e RenderError) Unwrap() error { return e.err }

var (
	htmlMinify     *minify.M
	htmlMinifyOnce sync.Once
)

func minifier() *minify.M {
	htmlMinifyOnce.Do(func() {
		htmlMinify = minify.New()
		htmlMinify.AddFunc("text/html", mhtml.Minify)
	})
	return htmlMinify
}

// HTML renders the complete annotated document: each element's own
// render output concatenated in original segment order, wrapped into
// the fixed skeleton with configuration-gated style, script and
// sidebar blocks.
func (s *Session) HTML(cfg HTMLConfig) (string, error) {
	segs, err := s.Segments()
	if err != nil {
		return "", err
	}
	var body strings.Builder
	err = segs.Each(func(sg *Segment) error {
		el := sg.Element()
		h, err := el.HTML()
		if err != nil {
			return RenderError{
				ID: el.ID(), Name: el.ReadableName(), Pos: el.Position(),
				err: err,
			}
		}
		body.WriteString(h)
		return nil
	})
	if err != nil {
		return "", err
	}

	title := cfg.Title
	if title == "" {
		if title = strings.ToUpper(s.Mode()); title == "" {
			title = "outparse"
		}
	}
	css := cfg.CSS
	if css == "" {
		css = DefaultCSS
	}
	js := cfg.JS
	if js == "" {
		js = DefaultJS
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	doc.WriteString("    <meta charset=\"UTF-8\">\n")
	doc.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&doc, "    <title>%s</title>\n", title)
	if cfg.InsertCSS {
		doc.WriteString("    <style>\n")
		doc.WriteString(css)
		doc.WriteString("\n    </style>\n")
	}
	doc.WriteString("</head>\n<body>\n    <div class=\"container\">\n")
	if cfg.LeftSidebar {
		doc.WriteString("        <div class=\"sidebar\">\n")
		doc.WriteString("            <div class=\"toc\"></div>\n")
		doc.WriteString("        </div>\n")
	}
	if cfg.CommentSidebar {
		doc.WriteString("        <div class=\"comment-sidebar\"></div>\n")
	}
	doc.WriteString("        <div class=\"content\">")
	doc.WriteString(body.String())
	doc.WriteString("</div>\n    </div>\n")
	if cfg.InsertJS {
		doc.WriteString("    <script>\n")
		doc.WriteString(js)
		doc.WriteString("\n    </script>\n")
	}
	doc.WriteString("</body>\n</html>")

	res := doc.String()
	if cfg.Minify {
		res, err = minifier().String("text/html", res)
		if err != nil {
			return "", fmt.Errorf("minify document: %w", err)
		}
	}
	return res, nil
}

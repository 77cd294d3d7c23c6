/*
Package outparse turns the raw text output of scientific computation
runs into a typed, positioned tree of elements that can be queried and
rendered to an annotated HTML document.

Output files of programs like quantum chemistry packages are
semi-structured: they are mostly free text, but specific blocks —
banners, converged energies, timing summaries — follow stable textual
shapes. outparse does not try to give such files a grammar. Instead an
ordered list of pattern passes is applied to the text. Each pass is one
declarative rule: a type tag, a subtype tag and a regular expression.
Text claimed by a pass becomes an immutable element; text no pass
claims is wrapped as an "Unknown" element so that nothing is ever
silently dropped.

The unit of bookkeeping is the segment. A session starts with a single
segment spanning the whole input. Every match splits its enclosing
segment into up to three parts: raw prefix, classified element, raw
suffix. Char spans are 0-based and half-open, line spans are 1-based
and inclusive, and both are computed from local offsets within the
split partition. At any point the segments are contiguous,
non-overlapping and concatenate to exactly the original text. This
partition invariant is what makes the final document reconstruction
exact: rendering walks the frozen segment list left to right and every
element contributes the escaped verbatim text it was built from.

Pass order is load-bearing. A pass only ever sees text that earlier
passes left unclaimed, so earlier passes have strict priority and the
classification is deterministic. Pattern tables are configuration, not
code: two presets ship embedded ("orca" and "gpaw") and custom tables
load from YAML via LoadSettingsFile.

A minimal use:

	set, err := outparse.SettingsForMode("orca")
	if err != nil { ... }
	s := outparse.NewSession(text, set)
	rows, err := s.Search(outparse.Query{RawAllOf: []string{"ENERGY"}})
	doc, err := s.HTML(outparse.DefaultHTMLConfig())

Sessions are not safe for concurrent use. Initialization is idempotent:
once the segment list is frozen, repeated calls are no-ops and all
views (search rows, structure, rendered document) are read-only
derivations of the same frozen state.
*/
package outparse

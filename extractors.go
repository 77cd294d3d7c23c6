package outparse

import (
	"fmt"
	"regexp"
	"strconv"
)

// Built-in value extractors for preset subtypes. Extraction is best
// effort: a failing extractor surfaces as a diagnostic on the row, it
// never aborts a batch.

// DefaultExtractors returns a copy of the built-in extractor set, e.g.
// to combine with custom pattern tables.
func DefaultExtractors() Extractors {
	res := make(Extractors, len(builtinExtractors))
	for k, v := range builtinExtractors {
		res[k] = v
	}
	return res
}

var builtinExtractors = Extractors{
	"FinalSinglePointEnergy": extractTrailingFloat("energy", "Hartree"),
	"FreeEnergy":             extractTrailingFloat("energy", "eV"),
	"ExtrapolatedEnergy":     extractTrailingFloat("energy", "eV"),
	"TotalRunTime":           extractRunTime,
	"Iteration":              extractIteration,
}

var rxFloat = regexp.MustCompile(`-?\d+\.\d+`)

// extractTrailingFloat picks the first decimal number of the block.
func extractTrailingFloat(key, unit string) ExtractFunc {
	return func(raw string) (*Data, error) {
		m := rxFloat.FindString(raw)
		if m == "" {
			return nil, fmt.Errorf("no decimal number in %q", raw)
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil, err
		}
		return &Data{Values: map[string]any{key: v}, Comment: unit}, nil
	}
}

var rxRunTime = regexp.MustCompile(
	`(\d+) days (\d+) hours (\d+) minutes (\d+) seconds (\d+) msec`)

func extractRunTime(raw string) (*Data, error) {
	m := rxRunTime.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("unrecognized run time format in %q", raw)
	}
	var p [5]int
	for i := range p {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return nil, err
		}
		p[i] = v
	}
	secs := float64(((p[0]*24+p[1])*60+p[2])*60+p[3]) + float64(p[4])/1000
	return &Data{
		Values:  map[string]any{"seconds": secs},
		Comment: "total wall time",
	}, nil
}

var rxIter = regexp.MustCompile(`iter:\s+(\d+)`)

func extractIteration(raw string) (*Data, error) {
	m := rxIter.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("no iteration number in %q", raw)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}
	return &Data{Values: map[string]any{"iteration": n}}, nil
}

// Package outparsing supports the use of outparse in your Go tests.
// Rendered documents are compared against reference files kept under
// the test's testdata directory.
//
// To record a reference file instead of comparing, run the test with
// the OUTPARSING_RECORD environment variable set to a regexp matching
// the test name:
//
//	OUTPARSING_RECORD=TestRenderDoc go test -run TestRenderDoc
package outparsing

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// RecordEnv names the environment variable that switches matching
// tests from comparing to recording.
const RecordEnv = "OUTPARSING_RECORD"

// GoTestdataDir is the name of Go's default directory for testdata
// (see go help test).
const GoTestdataDir = "testdata"

const StdSuffix = ".html"

// RefRepo locates reference files for tests.
type RefRepo struct {
	Dir    string
	Suffix string
}

func (rr RefRepo) Filename(t *testing.T, hint string) string {
	suffix := rr.Suffix
	if suffix == "" {
		suffix = StdSuffix
	}
	if hint == "" {
		return filepath.Join(rr.Dir, t.Name()+suffix)
	}
	if strings.HasSuffix(hint, suffix) {
		return filepath.Join(rr.Dir, t.Name(), hint)
	}
	return filepath.Join(rr.Dir, t.Name(), hint+suffix)
}

var defaultRepo = RefRepo{Dir: GoTestdataDir}

// Error compares got against the test's reference file and reports a
// mismatch with t.Error.
func Error(t *testing.T, hint, got string) error {
	err := compare(t, hint, got)
	if err != nil {
		t.Error(err)
	}
	return err
}

// Fatal is like Error but aborts the test on mismatch.
func Fatal(t *testing.T, hint, got string) {
	if err := compare(t, hint, got); err != nil {
		t.Fatal(err)
	}
}

// Record writes got as the new reference file and fails the test so
// that recording runs are never mistaken for passing ones.
func Record(t *testing.T, hint, got string) {
	reffile := defaultRepo.Filename(t, hint)
	if err := os.MkdirAll(filepath.Dir(reffile), 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(reffile, []byte(got), 0666); err != nil {
		t.Fatal(err)
	}
	t.Errorf("outparsing test-recorder wrote: %s", reffile)
}

func compare(t *testing.T, hint, got string) error {
	if recordTest(t) {
		Record(t, hint, got)
		return nil
	}
	reffile := defaultRepo.Filename(t, hint)
	want, err := os.ReadFile(reffile)
	if os.IsNotExist(err) {
		t.Logf("to record a reference file run '%[1]s=%[2]s go test -run %[2]s'",
			RecordEnv, t.Name())
		return fmt.Errorf("reference file %s does not exist", reffile)
	} else if err != nil {
		return err
	}
	if string(want) == got {
		return nil
	}
	wl := strings.Split(string(want), "\n")
	gl := strings.Split(got, "\n")
	for i := 0; i < len(wl) || i < len(gl); i++ {
		var w, g string
		if i < len(wl) {
			w = wl[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if w != g {
			return fmt.Errorf("%s:%d mismatch\nref [%s]\ngot [%s]",
				reffile, i+1, w, g)
		}
	}
	return fmt.Errorf("%s mismatch", reffile)
}

func recordTest(t *testing.T) bool {
	rec := os.Getenv(RecordEnv)
	if rec == "" {
		return false
	}
	r, err := regexp.Compile(rec)
	if err != nil {
		t.Logf("outparsing: invalid regexp '%s' in %s, not recording: %s",
			rec, RecordEnv, err)
		return false
	}
	return r.MatchString(t.Name())
}

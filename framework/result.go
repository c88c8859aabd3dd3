package framework

import (
	"fmt"
	"io"
	"strings"
	"time"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID      TestID
	Errors      []error
	Skipped     bool
	SkipReason  string
	Group       bool // true if the test only served to contain subtests
	Duration    time.Duration
	DebugOutput CapturedOutput
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Scenarios returns the results that represent individual scenarios: every test that had no
// subtests, plus any group that failed on its own account.
func (r Results) Scenarios() []TestResult {
	var ret []TestResult
	for _, t := range r.Tests {
		if !t.Group || (len(t.Errors) != 0 && !t.Skipped) {
			ret = append(ret, t)
		}
	}
	return ret
}

// Failed returns true if this result was a failure.
func (t TestResult) Failed() bool {
	return !t.Skipped && len(t.Errors) != 0
}

type TestID struct {
	Path []string
}

// Plus returns a new TestID for a subtest of this one.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// PrintResults writes a summary of the test run.
func PrintResults(out io.Writer, results Results) {
	var passed, skipped int
	for _, t := range results.Scenarios() {
		switch {
		case t.Skipped:
			skipped++
		case !t.Failed():
			passed++
		}
	}
	if results.OK() {
		fmt.Fprintf(out, "All tests passed (%d passed, %d skipped)\n", passed, skipped)
		return
	}
	fmt.Fprintf(out, "FAILED TESTS (%d failed, %d passed, %d skipped):\n", len(results.Failures), passed, skipped)
	for _, f := range results.Failures {
		fmt.Fprintf(out, "* %s\n", f.TestID)
	}
}

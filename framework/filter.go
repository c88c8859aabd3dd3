package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter matches a test if its ID, or the ID of any of its ancestors or descendants, is
// selected. Matching ancestors and descendants lets "-run" name either a whole phase or a
// single scenario without the enclosing groups being skipped.
func (r RegexFilters) AsFilter(id TestID) bool {
	if r.MustNotMatch.AnyMatch(id.String()) {
		return false
	}
	if !r.MustMatch.IsDefined() {
		return true
	}
	for i := 1; i <= len(id.Path); i++ {
		if r.MustMatch.AnyMatch(TestID{Path: id.Path[:i]}.String()) {
			return true
		}
	}
	return r.MustMatch.AnyPrefixMatch(id.String() + "/")
}

type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyPrefixMatch returns true if any pattern, read as text, begins with the regex-quoted form
// of s. This is how a group is kept when a pattern names one of its descendants exactly.
func (r RegexList) AnyPrefixMatch(s string) bool {
	quoted := regexp.QuoteMeta(s)
	for _, p := range r.patterns {
		if strings.HasPrefix(strings.TrimPrefix(p.String(), "^"), quoted) {
			return true
		}
	}
	return false
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
}

package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gatewayadmin/admin-contract-tests/client"
	"github.com/gatewayadmin/admin-contract-tests/framework"

	"github.com/alessio/shellescape"
)

const (
	defaultWorkspace    = "default"
	defaultReadyTimeout = time.Second * 10
)

type commandParams struct {
	baseURL        string
	workspace      string
	casesFile      string
	reportFile     string
	filters        framework.RegexFilters
	requestTimeout time.Duration
	readyTimeout   time.Duration
	debug          bool
	debugAll       bool
	noColor        bool
	fake           bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.baseURL, "url", "", "base URL of the gateway admin API")
	fs.StringVar(&c.workspace, "workspace", defaultWorkspace, "workspace that every request is sent to")
	fs.StringVar(&c.casesFile, "cases", "", "YAML or JSON file of test case tables (default: built-in tables)")
	fs.StringVar(&c.reportFile, "report", "", "file to write a JSON report of the run to")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.DurationVar(&c.requestTimeout, "timeout", client.DefaultRequestTimeout, "timeout for each admin API request")
	fs.DurationVar(&c.readyTimeout, "ready-timeout", defaultReadyTimeout, "how long to wait for the admin API to respond at startup")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&c.fake, "fake", false, "run against an in-process fake gateway instead of -url")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.baseURL == "" && !c.fake {
		fmt.Fprintln(errOut, "-url is required unless -fake is set")
		fs.Usage()
		return false
	}
	if c.baseURL != "" && c.fake {
		fmt.Fprintln(errOut, "-url and -fake cannot be used together")
		fs.Usage()
		return false
	}
	if c.workspace == "" || strings.Contains(c.workspace, "/") {
		fmt.Fprintf(errOut, "invalid workspace %q\n", c.workspace)
		return false
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	return true
}

// rerunCommand returns a command line that runs only the given tests again, with the same
// target and debug output enabled.
func (c commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program)
	if c.fake {
		b.add("-fake")
	} else {
		b.add("-url", c.baseURL)
	}
	if c.workspace != defaultWorkspace {
		b.add("-workspace", c.workspace)
	}
	if c.casesFile != "" {
		b.add("-cases", c.casesFile)
	}
	for _, pattern := range rerunPatterns(failures) {
		b.add("-run", pattern)
	}
	b.add("-debug")
	return b.String()
}

// rerunPatterns returns one -run pattern per test, matching that test's ID exactly.
func rerunPatterns(failures []framework.TestResult) []string {
	patterns := make([]string, 0, len(failures))
	for _, f := range failures {
		patterns = append(patterns, "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	return patterns
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

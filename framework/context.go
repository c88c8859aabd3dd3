package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of one test or group of tests. Its methods are used in the same way as
// the corresponding methods of *testing.T, and it implements require.TestingT.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	hasChildren bool
	errors      []error
}

// Run creates a root Context and runs the action with it. The root Context itself is not
// recorded in the results; only the tests started with Context.Run are.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if !c.skipped {
				c.failed = true
				var addError error
				if _, ok := r.(*Context); ok {
					if len(c.errors) == 0 {
						addError = errors.New("test failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
				}
				if addError != nil {
					c.errors = append(c.errors, addError)
					c.env.testLogger.TestError(c.id, addError)
				}
			}
		}
		if len(c.id.Path) == 0 {
			return
		}
		result := TestResult{
			TestID:      c.id,
			Errors:      c.errors,
			Skipped:     c.skipped,
			SkipReason:  c.skipReason,
			Group:       c.hasChildren,
			Duration:    time.Since(started),
			DebugOutput: c.debugLogger.Output(),
		}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

// ID returns the full identifier of this test.
func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest, and returns true if it neither failed nor was skipped.
//
// If the filter excludes the subtest, it is recorded as skipped without running the action.
func (c *Context) Run(name string, action func(*Context)) bool {
	return c.runChild(name, true, action)
}

// RunPrerequisite runs a subtest whose outcome later subtests of the same parent depend on.
// It ignores the filter: once the parent has been selected, the prerequisite always runs.
func (c *Context) RunPrerequisite(name string, action func(*Context)) bool {
	return c.runChild(name, false, action)
}

func (c *Context) runChild(name string, filtered bool, action func(*Context)) bool {
	id := c.id.Plus(name)
	c.hasChildren = true

	c.env.testLogger.TestStarted(id)
	if filtered && c.env.filter != nil && !c.env.filter(id) {
		const reason = "excluded by filter parameters"
		c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: id, Skipped: true, SkipReason: reason})
		c.env.testLogger.TestSkipped(id, reason)
		return false
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return false
	}
	c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	return !c1.failed
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := reformatError(fmt.Errorf(format, args...))
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// Failed returns true if a failure has been recorded for this test so far.
func (c *Context) Failed() bool {
	return c.failed
}

// FailNow stops the test immediately. Any failure must already have been recorded with Errorf.
func (c *Context) FailNow() {
	panic(c)
}

// Skip stops the test immediately and marks it as skipped.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug adds a line to the debug output that is captured for this test.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError removes the "Error Trace" block from testify assertion messages, since
// those stack locations always point into the test helpers rather than the scenario.
func reformatError(err error) error {
	lines := strings.Split(err.Error(), "\n")
	out := make([]string, 0, len(lines))
	inTrace := false
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "Error Trace:") {
			inTrace = true
			continue
		}
		if inTrace {
			if isContinuationLine(line) {
				continue
			}
			inTrace = false
		}
		out = append(out, line)
	}
	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	return errors.New(strings.Join(out, "\n"))
}

// testify indents the continuation lines of a labeled value as a tab, spaces, and a tab.
func isContinuationLine(line string) bool {
	if !strings.HasPrefix(line, "\t") {
		return false
	}
	rest := strings.TrimLeft(line[1:], " ")
	return strings.HasPrefix(rest, "\t")
}

package framework

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggedEvent struct {
	kind string
	id   string
	info string
}

type recordingTestLogger struct {
	events []loggedEvent
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.events = append(r.events, loggedEvent{kind: "started", id: id.String()})
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, loggedEvent{kind: "error", id: id.String(), info: err.Error()})
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	info := "passed"
	if failed {
		info = "failed"
	}
	r.events = append(r.events, loggedEvent{kind: "finished", id: id.String(), info: info})
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, loggedEvent{kind: "skipped", id: id.String(), info: reason})
}

func TestRunRecordsResults(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("passes", func(c *Context) {})
			c.Run("fails", func(c *Context) {
				c.Errorf("bad %d", 1)
				c.Errorf("bad %d", 2)
			})
		})
	})

	require.Len(t, results.Tests, 3)
	assert.Equal(t, "group/passes", results.Tests[0].TestID.String())
	assert.Equal(t, "group/fails", results.Tests[1].TestID.String())
	assert.Equal(t, "group", results.Tests[2].TestID.String())
	assert.True(t, results.Tests[2].Group)
	assert.False(t, results.OK())

	require.Len(t, results.Failures, 1)
	assert.Equal(t, []error{errors.New("bad 1"), errors.New("bad 2")}, results.Failures[0].Errors)

	var ids []string
	for _, s := range results.Scenarios() {
		ids = append(ids, s.TestID.String())
	}
	assert.Equal(t, []string{"group/passes", "group/fails"}, ids)
}

func TestRunReturnValue(t *testing.T) {
	var passed, failed, skipped bool
	Run(nil, nil, func(c *Context) {
		passed = c.Run("a", func(c *Context) {})
		failed = c.Run("b", func(c *Context) { c.Errorf("no") })
		skipped = c.Run("c", func(c *Context) { c.Skip() })
	})
	assert.True(t, passed)
	assert.False(t, failed)
	assert.False(t, skipped)
}

func TestFailNowStopsTest(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			require.Equal(c, 1, 2)
			reached = true
		})
	})
	assert.False(t, reached)
	require.Len(t, results.Failures, 1)
	assert.Len(t, results.Failures[0].Errors, 1)
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { c.FailNow() })
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "test failed with no failure message", results.Failures[0].Errors[0].Error())
}

func TestUnexpectedPanicFailsTest(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { panic("oops") })
		c.Run("y", func(c *Context) {})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: oops")
	assert.Len(t, results.Tests, 2)
}

func TestSkipWithReason(t *testing.T) {
	logger := &recordingTestLogger{}
	reached := false
	results := Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.SkipWithReason("not today")
			reached = true
		})
	})
	assert.False(t, reached)
	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
	assert.Equal(t, "not today", results.Tests[0].SkipReason)
	assert.Equal(t, []loggedEvent{
		{kind: "started", id: "x"},
		{kind: "skipped", id: "x", info: "not today"},
	}, logger.events)
}

func TestFilteredTestIsSkipped(t *testing.T) {
	ran := false
	results := Run(func(id TestID) bool { return id.String() != "x" }, nil, func(c *Context) {
		c.Run("x", func(c *Context) { ran = true })
	})
	assert.False(t, ran)
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
	assert.Equal(t, "excluded by filter parameters", results.Tests[0].SkipReason)
}

func TestPrerequisiteIgnoresFilter(t *testing.T) {
	var ran []string
	filter := func(id TestID) bool { return id.String() != "group/setup" }
	results := Run(filter, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.RunPrerequisite("setup", func(c *Context) { ran = append(ran, "setup") })
			c.Run("setup", func(c *Context) { ran = append(ran, "filtered") })
			c.Run("case", func(c *Context) { ran = append(ran, "case") })
		})
	})
	assert.Equal(t, []string{"setup", "case"}, ran)
	require.Len(t, results.Tests, 4)
	assert.False(t, results.Tests[0].Skipped)
	assert.True(t, results.Tests[1].Skipped)
}

func TestPrerequisiteOfExcludedGroupDoesNotRun(t *testing.T) {
	ran := false
	results := Run(func(id TestID) bool { return false }, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.RunPrerequisite("setup", func(c *Context) { ran = true })
		})
	})
	assert.False(t, ran)
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
}

func TestDebugOutputIsCaptured(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Debug("hello %s", "there")
			c.DebugLogger().Printf("again")
		})
	})
	require.Len(t, results.Tests, 1)
	out := results.Tests[0].DebugOutput
	require.Len(t, out, 2)
	assert.Equal(t, "hello there", out[0].Message)
	assert.Equal(t, "again", out[1].Message)
}

func TestAssertionErrorsOmitTrace(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) {
			assert.Equal(c, "a", "b", "letters")
		})
	})
	require.Len(t, results.Failures, 1)
	message := results.Failures[0].Errors[0].Error()
	assert.NotContains(t, message, "Error Trace:")
	assert.Contains(t, message, "Error:")
	assert.Contains(t, message, "letters")
	assert.False(t, strings.HasPrefix(message, "\n"))

	var logged []string
	for _, e := range logger.events {
		if e.kind == "error" {
			logged = append(logged, e.info)
		}
	}
	assert.Equal(t, []string{message}, logged)
}

func TestReformatErrorKeepsOtherLines(t *testing.T) {
	in := "\n\tError Trace:\tfile.go:10\n\t            \t\tfile.go:20\n\tError:      \tNot equal\n\tMessages:   \thi"
	out := reformatError(errors.New(in))
	assert.Equal(t, "\tError:      \tNot equal\n\tMessages:   \thi", out.Error())
}

package framework

// TestLogger receives progress notifications while tests run. The CLI prints them to the
// console; tests of the suite usually pass nil, which Run replaces with a logger that does
// nothing.
type TestLogger interface {
	TestStarted(id TestID)

	// TestError is called once for each failure, as soon as it is recorded.
	TestError(id TestID, err error)

	// TestFinished is called when a test that was not skipped ends. debugOutput is everything
	// the test logged, including one line per admin API request.
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)

	// TestSkipped is called instead of TestFinished, and also for tests excluded by the filter.
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (nullTestLogger) TestStarted(TestID)                        {}
func (nullTestLogger) TestError(TestID, error)                   {}
func (nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (nullTestLogger) TestSkipped(TestID, string)                {}

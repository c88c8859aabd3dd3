// Package report converts the results of a test run into a JSON document for other tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gatewayadmin/admin-contract-tests/framework"

	"github.com/google/uuid"
)

type Outcome string

const (
	Passed  Outcome = "passed"
	Failed  Outcome = "failed"
	Skipped Outcome = "skipped"
)

type Report struct {
	RunID      string     `json:"runId"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
	BaseURL    string     `json:"baseUrl"`
	Workspace  string     `json:"workspace"`
	Totals     Totals     `json:"totals"`
	Scenarios  []Scenario `json:"scenarios"`
}

type Totals struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type Scenario struct {
	ID         string   `json:"id"`
	Outcome    Outcome  `json:"outcome"`
	Errors     []string `json:"errors,omitempty"`
	SkipReason string   `json:"skipReason,omitempty"`
	DurationMS int64    `json:"durationMs"`
	Debug      []string `json:"debug,omitempty"`
}

// Build creates a report containing one entry per scenario in the results.
func Build(results framework.Results, baseURL, workspace string, startedAt, finishedAt time.Time) Report {
	r := Report{
		RunID:      uuid.New().String(),
		StartedAt:  startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
		BaseURL:    baseURL,
		Workspace:  workspace,
		Scenarios:  []Scenario{},
	}
	for _, t := range results.Scenarios() {
		s := Scenario{
			ID:         t.TestID.String(),
			SkipReason: t.SkipReason,
			DurationMS: t.Duration.Milliseconds(),
		}
		switch {
		case t.Skipped:
			s.Outcome = Skipped
			r.Totals.Skipped++
		case t.Failed():
			s.Outcome = Failed
			r.Totals.Failed++
		default:
			s.Outcome = Passed
			r.Totals.Passed++
		}
		for _, err := range t.Errors {
			s.Errors = append(s.Errors, err.Error())
		}
		for _, m := range t.DebugOutput {
			s.Debug = append(s.Debug, m.Time.UTC().Format(time.RFC3339Nano)+" "+m.Message)
		}
		r.Scenarios = append(r.Scenarios, s)
	}
	r.Totals.Total = len(r.Scenarios)
	return r
}

func (r Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to a file, replacing any existing file.
func (r Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report file: %w", err)
	}
	if err := r.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write report file: %w", err)
	}
	return f.Close()
}

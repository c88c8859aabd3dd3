// Package cases defines the parameter tables that the contract tests are expanded from.
package cases

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestCase is one row of a case table. Names are unique within a table.
type TestCase struct {
	Name  string   `yaml:"name" json:"name"`
	Tags  []string `yaml:"tags" json:"tags"`
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty"`
}

// Tables holds every case table used by the test suite.
type Tables struct {
	ValidateService []TestCase `yaml:"validateServiceTestCases" json:"validateServiceTestCases"`
	CreateService   []TestCase `yaml:"createServiceTestCases" json:"createServiceTestCases"`
	CreateRoute     []TestCase `yaml:"createRouteTestCases" json:"createRouteTestCases"`
}

// Defaults returns the tables that are used when no case file is given.
func Defaults() Tables {
	return Tables{
		ValidateService: []TestCase{
			{Name: "test1", Tags: []string{"tag1"}},
			{Name: "test2", Tags: []string{"tag2", "tag3"}},
			{Name: "test3", Tags: []string{"tag4"}},
		},
		CreateService: []TestCase{
			{Name: "service1", Tags: []string{"service1"}},
			{Name: "service2", Tags: []string{"service2"}},
		},
		CreateRoute: []TestCase{
			{Name: "route1", Tags: []string{"route1"}, Paths: []string{"/route1"}},
			{Name: "route2", Tags: []string{"route2", "v1"}, Paths: []string{"/route2", "/v1/route2"}},
		},
	}
}

// LoadFile parses case tables from a YAML or JSON file. The format is detected by file
// extension. A table that is absent from the file is empty; it does not fall back to the
// default.
func LoadFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading case tables %s: %w", path, err)
	}

	var t Tables
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &t); err != nil {
			return Tables{}, fmt.Errorf("parsing case tables %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return Tables{}, fmt.Errorf("parsing case tables %s: %w", path, err)
		}
	default:
		return Tables{}, fmt.Errorf("unsupported case table format %q (use .yaml, .yml, or .json)", filepath.Ext(path))
	}

	if err := t.Validate(); err != nil {
		return Tables{}, fmt.Errorf("invalid case tables %s: %w", path, err)
	}
	return t, nil
}

// Validate checks that every case has a name and that names are unique within each table.
func (t Tables) Validate() error {
	var errs []string
	check := func(table string, cs []TestCase) {
		seen := make(map[string]bool, len(cs))
		for i, c := range cs {
			switch {
			case c.Name == "":
				errs = append(errs, fmt.Sprintf("%s[%d]: name is required", table, i))
			case seen[c.Name]:
				errs = append(errs, fmt.Sprintf("%s[%d]: duplicate name %q", table, i, c.Name))
			}
			seen[c.Name] = true
		}
	}
	check("validateServiceTestCases", t.ValidateService)
	check("createServiceTestCases", t.CreateService)
	check("createRouteTestCases", t.CreateRoute)
	if len(errs) != 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Count returns the total number of cases in all tables.
func (t Tables) Count() int {
	return len(t.ValidateService) + len(t.CreateService) + len(t.CreateRoute)
}

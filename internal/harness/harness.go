// Package harness runs scripted CLI scenarios against a fresh database
// and captures a transcript of every step for golden-file comparison.
//
// Each scenario gets its own temporary database, seeded with the
// reference catalog, and its own recipes directory built from inline
// CUE sources. Steps run the real command tree in process; the
// transcript records the command line, its stdout and its exit code.
// Paths vary per run, so commands are scripted with the {db} and {dir}
// placeholders and the transcript keeps the placeholders.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/brewcode/internal/cli"
	"github.com/roach88/brewcode/internal/store"
)

// Placeholders substituted into step arguments before execution.
const (
	PlaceholderDB  = "{db}"
	PlaceholderDir = "{dir}"
)

// Scenario is one scripted CLI session.
type Scenario struct {
	Name string

	// Recipes maps file names to CUE source, written into the
	// scenario's recipes directory before any step runs.
	Recipes map[string]string

	// Steps are command lines for the brewcode root command, run in
	// order. Every step executes even after a failing one; failures are
	// part of what scenarios pin down.
	Steps []Step
}

// Step is a single command invocation.
type Step struct {
	Args []string
}

// StepResult holds one executed step's observable output.
type StepResult struct {
	Args     []string // As scripted, placeholders intact
	Stdout   string
	ExitCode int
}

// Result collects the outcome of a scenario run.
type Result struct {
	Scenario *Scenario
	Steps    []StepResult
}

// Transcript renders the run as a deterministic text log.
func (r *Result) Transcript() []byte {
	var b bytes.Buffer
	for i, step := range r.Steps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "$ brewcode %s\n", strings.Join(step.Args, " "))
		b.WriteString(step.Stdout)
		fmt.Fprintf(&b, "exit %d\n", step.ExitCode)
	}
	return b.Bytes()
}

// Run executes a scenario: creates and seeds the database, writes the
// recipe files, then runs each step against the real command tree.
func Run(scenario *Scenario) (*Result, error) {
	workDir, err := os.MkdirTemp("", "brewcode-harness-*")
	if err != nil {
		return nil, fmt.Errorf("create scenario dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	dbPath := filepath.Join(workDir, "brewcode.db")
	recipesDir := filepath.Join(workDir, "recipes")
	if err := os.Mkdir(recipesDir, 0755); err != nil {
		return nil, fmt.Errorf("create recipes dir: %w", err)
	}

	for name, content := range scenario.Recipes {
		if err := os.WriteFile(filepath.Join(recipesDir, name), []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("write recipe %s: %w", name, err)
		}
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open scenario database: %w", err)
	}
	if err := s.Seed(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("seed scenario database: %w", err)
	}
	if err := s.Close(); err != nil {
		return nil, fmt.Errorf("close scenario database: %w", err)
	}

	result := &Result{Scenario: scenario}
	for _, step := range scenario.Steps {
		stepResult, err := runStep(step, dbPath, recipesDir)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", strings.Join(step.Args, " "), err)
		}
		result.Steps = append(result.Steps, stepResult)
	}

	return result, nil
}

func runStep(step Step, dbPath, recipesDir string) (StepResult, error) {
	args := make([]string, len(step.Args))
	for i, a := range step.Args {
		a = strings.ReplaceAll(a, PlaceholderDB, dbPath)
		a = strings.ReplaceAll(a, PlaceholderDir, recipesDir)
		args[i] = a
	}

	stdout := &bytes.Buffer{}
	cmd := cli.NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	exitCode := 0
	if err := cmd.Execute(); err != nil {
		exitCode = cli.GetExitCode(err)
	}

	return StepResult{
		Args:     step.Args,
		Stdout:   stdout.String(),
		ExitCode: exitCode,
	}, nil
}

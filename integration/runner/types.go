package runner

import (
	"time"

	"github.com/google/uuid"
)

// Step kinds.
const (
	StepAct            = "act"
	StepUndo           = "undo"
	StepEndPhase       = "end_phase"
	StepCloseNewspaper = "close_newspaper"
	StepRead           = "read"
)

// TestSuite defines one game played against a running API.
// A suite either has Steps or sequences other case files in Cases.
type TestSuite struct {
	Name  string     `json:"name"`
	Mode  string     `json:"mode,omitempty"`
	Steps []TestStep `json:"steps,omitempty"`
	Cases []string   `json:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one player operation and what should follow from it.
// Target is a villager name or its 1-based position in the roster.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Kind         string       `json:"kind"`
	ActionType   string       `json:"action_type,omitempty"`
	Content      string       `json:"content,omitempty"`
	Target       string       `json:"target,omitempty"`
	ExpectStatus int          `json:"expect_status,omitempty"`
	Expectations Expectations `json:"expect"`
}

// Expectations checked against the game state after a step.
type Expectations struct {
	Day             *int     `json:"day,omitempty"`
	Phase           *string  `json:"phase,omitempty"`
	ActionPoints    *int     `json:"action_points,omitempty"`
	PendingActions  *int     `json:"pending_actions,omitempty"`
	IsSimulating    *bool    `json:"is_simulating,omitempty"`
	HasOutcome      *bool    `json:"has_outcome,omitempty"`
	HasNewspaper    *bool    `json:"has_newspaper,omitempty"`
	MinIntel        *int     `json:"min_intel,omitempty"`
	LogContains     []string `json:"log_contains,omitempty"`
	LogNotContains  []string `json:"log_not_contains,omitempty"`
	ReplyContains   []string `json:"reply_contains,omitempty"`
	ErrorMessageSet *bool    `json:"error_message_set,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName  string
	Success   bool
	Error     error
	Duration  time.Duration
	RequestID string
	Reply     string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Duration time.Duration
	GameID   uuid.UUID
	Error    error
}

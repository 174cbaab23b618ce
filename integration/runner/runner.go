package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/internal/handlers"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays test suites against a running gossip-village API and worker
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	ModeOverride      string
}

func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	return suite, nil
}

// LoadTestSuiteWithExpansion loads a suite and, for sequences, every case it
// references.
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}
	if !suite.IsSequence() {
		return []TestJob{{Name: suite.Name, Suite: suite, CaseFile: filename}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		subJobs, err := LoadTestSuiteWithExpansion(filepath.Join(casesDir, caseFile), casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}
	return jobs, nil
}

// RunSuite starts a new game and runs every step against it.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	mode := suite.Mode
	if r.ModeOverride != "" {
		mode = r.ModeOverride
	}
	gs, err := r.createGame(ctx, mode)
	if err != nil {
		result.Error = fmt.Errorf("failed to create game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.GameID = gs.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.executeStep(ctx, gs.ID, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) createGame(ctx context.Context, mode string) (*state.GameState, error) {
	var gs state.GameState
	status, err := r.send(ctx, http.MethodPost, "/v1/games", handlers.CreateGameRequest{Mode: mode}, &gs)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("create game returned %d", status)
	}
	return &gs, nil
}

// send posts body as JSON and decodes a 2xx response into out. Error
// statuses are returned without an error so steps can expect them.
func (r *Runner) send(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// executeStep performs one step, waiting for the worker on end_phase.
func (r *Runner) executeStep(ctx context.Context, gameID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	finish := func(err error) TestResult {
		result.Error = err
		result.Success = err == nil
		result.Duration = time.Since(start)
		return result
	}

	before, err := GetGameState(ctx, r.Client, r.BaseURL, gameID)
	if err != nil {
		return finish(fmt.Errorf("failed to get game before step: %w", err))
	}

	base := "/v1/games/" + gameID.String()
	var (
		status int
		want   int
	)
	switch step.Kind {
	case StepAct:
		target := ""
		if step.Target != "" {
			npc, err := ResolveTarget(before, step.Target)
			if err != nil {
				return finish(err)
			}
			target = npc.ID
		}
		var resp handlers.ActionResponse
		status, err = r.send(ctx, http.MethodPost, base+"/actions", handlers.ActionRequest{
			Type:     step.ActionType,
			Content:  step.Content,
			TargetID: target,
		}, &resp)
		if resp.Interrogation != nil {
			result.Reply = resp.Interrogation.Reply
		}
		want = http.StatusOK
	case StepUndo:
		status, err = r.send(ctx, http.MethodPost, base+"/undo", nil, nil)
		want = http.StatusOK
	case StepEndPhase:
		var resp handlers.EndPhaseResponse
		status, err = r.send(ctx, http.MethodPost, base+"/end-phase", nil, &resp)
		result.RequestID = resp.RequestID
		want = http.StatusAccepted
	case StepCloseNewspaper:
		status, err = r.send(ctx, http.MethodPost, base+"/newspaper/close", nil, nil)
		want = http.StatusOK
	case StepRead:
		status, want = http.StatusOK, http.StatusOK
	default:
		return finish(fmt.Errorf("unknown step kind %q", step.Kind))
	}
	if err != nil {
		return finish(err)
	}
	if step.ExpectStatus != 0 {
		want = step.ExpectStatus
	}
	if status != want {
		return finish(fmt.Errorf("expected status %d, got %d", want, status))
	}

	after, err := GetGameState(ctx, r.Client, r.BaseURL, gameID)
	if err != nil {
		return finish(fmt.Errorf("failed to get game after step: %w", err))
	}
	if step.Kind == StepEndPhase && status == http.StatusAccepted {
		if after, err = PollForPhaseCompletion(ctx, r.Client, r.BaseURL, gameID, before); err != nil {
			return finish(err)
		}
	}

	return finish(CheckExpectations(step.Expectations, after, result.Reply))
}

// ResolveTarget finds a villager by name or 1-based roster position.
func ResolveTarget(gs *state.GameState, ref string) (*state.NPC, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(gs.NPCs) {
			return nil, fmt.Errorf("target #%d out of range (roster has %d)", n, len(gs.NPCs))
		}
		return &gs.NPCs[n-1], nil
	}
	if npc := gs.FindNPCByName(ref); npc != nil {
		return npc, nil
	}
	return nil, fmt.Errorf("no villager named %q", ref)
}

// CheckExpectations compares a game state with what a step expects.
func CheckExpectations(exp Expectations, gs *state.GameState, reply string) error {
	var errs []string
	if exp.Day != nil && gs.Day != *exp.Day {
		errs = append(errs, fmt.Sprintf("day: expected %d, got %d", *exp.Day, gs.Day))
	}
	if exp.Phase != nil && string(gs.Phase) != *exp.Phase {
		errs = append(errs, fmt.Sprintf("phase: expected %s, got %s", *exp.Phase, gs.Phase))
	}
	if exp.ActionPoints != nil && gs.ActionPoints != *exp.ActionPoints {
		errs = append(errs, fmt.Sprintf("action points: expected %d, got %d", *exp.ActionPoints, gs.ActionPoints))
	}
	if exp.PendingActions != nil && len(gs.PendingActions) != *exp.PendingActions {
		errs = append(errs, fmt.Sprintf("pending actions: expected %d, got %d", *exp.PendingActions, len(gs.PendingActions)))
	}
	if exp.IsSimulating != nil && gs.IsSimulating != *exp.IsSimulating {
		errs = append(errs, fmt.Sprintf("is_simulating: expected %v, got %v", *exp.IsSimulating, gs.IsSimulating))
	}
	if exp.HasOutcome != nil && (gs.Outcome != nil) != *exp.HasOutcome {
		errs = append(errs, fmt.Sprintf("has_outcome: expected %v", *exp.HasOutcome))
	}
	if exp.HasNewspaper != nil && (gs.LastNewspaper != nil) != *exp.HasNewspaper {
		errs = append(errs, fmt.Sprintf("has_newspaper: expected %v", *exp.HasNewspaper))
	}
	if exp.MinIntel != nil && len(gs.Intel) < *exp.MinIntel {
		errs = append(errs, fmt.Sprintf("intel: expected at least %d cards, got %d", *exp.MinIntel, len(gs.Intel)))
	}
	if exp.ErrorMessageSet != nil && (gs.ErrorMessage != "") != *exp.ErrorMessageSet {
		errs = append(errs, fmt.Sprintf("error_message_set: expected %v, got %q", *exp.ErrorMessageSet, gs.ErrorMessage))
	}

	var logText strings.Builder
	for _, l := range gs.Logs {
		logText.WriteString(l.Content)
		logText.WriteString("\n")
	}
	for _, s := range exp.LogContains {
		if !strings.Contains(logText.String(), s) {
			errs = append(errs, fmt.Sprintf("log should contain %q", s))
		}
	}
	for _, s := range exp.LogNotContains {
		if strings.Contains(logText.String(), s) {
			errs = append(errs, fmt.Sprintf("log should not contain %q", s))
		}
	}
	for _, s := range exp.ReplyContains {
		if !strings.Contains(reply, s) {
			errs = append(errs, fmt.Sprintf("reply should contain %q, got %q", s, reply))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

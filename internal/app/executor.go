package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/fuelquote/internal/platform/logging"
)

// Writes go through five steps: Validate → Perform → Verify → Archive → Respond.
// Nothing is persisted until Verify has accepted what Perform produced.

// ExecutionStep names a step of an operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// StepObserver is told how long each step took and whether it failed.
type StepObserver func(operation string, step ExecutionStep, took time.Duration, err error)

// Executor runs operations step by step with logging and observation.
type Executor struct {
	logger  *slog.Logger
	observe StepObserver
}

// NewExecutor creates a new executor. observe may be nil.
func NewExecutor(logger *slog.Logger, observe StepObserver) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	if observe == nil {
		observe = func(string, ExecutionStep, time.Duration, error) {}
	}

	return &Executor{logger: logger, observe: observe}
}

// Operation defines the functions for each step. Nil steps are skipped.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation for logging.
	Name string

	// Validate checks inputs before anything else happens.
	Validate func(ctx context.Context, input I) error

	// Perform does the work, e.g. computing a price.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify checks what Perform produced and turns it into the state to persist.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified state and returns it as stored.
	Archive func(ctx context.Context, input I, verified V) (V, error)

	// Respond shapes the stored state for the caller.
	Respond func(ctx context.Context, input I, archived V) (O, error)
}

// Execute runs an operation through all steps, stopping at the first failure.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		result    O
	)

	logger, ok := logging.Lookup(ctx)
	if !ok {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	steps := []struct {
		step ExecutionStep
		msg  string
		run  func() error
	}{
		{StepValidate, "input validation failed", func() error {
			if op.Validate == nil {
				return nil
			}

			return op.Validate(ctx, input)
		}},
		{StepPerform, "operation failed", func() (err error) {
			if op.Perform != nil {
				performed, err = op.Perform(ctx, input)
			}

			return err
		}},
		{StepVerify, "verification failed", func() (err error) {
			if op.Verify != nil {
				verified, err = op.Verify(ctx, input, performed)
			}

			return err
		}},
		{StepArchive, "state persistence failed", func() (err error) {
			if op.Archive != nil {
				verified, err = op.Archive(ctx, input, verified)
			}

			return err
		}},
		{StepRespond, "response failed", func() (err error) {
			if op.Respond != nil {
				result, err = op.Respond(ctx, input, verified)
			}

			return err
		}},
	}

	for _, s := range steps {
		stepStart := time.Now()
		err := s.run()
		exec.observe(op.Name, s.step, time.Since(stepStart), err)

		if err != nil {
			level := slog.LevelError
			if s.step == StepValidate || s.step == StepVerify {
				level = slog.LevelWarn
			}

			logger.Log(ctx, level, "step failed", slog.String("step", string(s.step)), slog.Any("error", err))

			return zero, &ExecutionError{Step: s.step, Message: s.msg, Cause: err}
		}

		logger.Log(ctx, logging.LevelTrace, "step completed", slog.String("step", string(s.step)))
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

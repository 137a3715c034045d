// Package analysis runs the companion analysis script as a child process.
package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	errorStartScriptFormat = "start analysis script %s: %w"
	errorTimeoutFormat     = "analysis script %s timed out after %s: %w"
	scriptErrorFormat      = "analysis script %s exited with code %d: %s"

	infoScriptFinishedMessage = "analysis script finished"
	infoScriptSkippedMessage  = "analysis script disabled"

	// outputDrainDelay bounds how long Wait keeps reading pipes held open by grandchildren after a kill.
	outputDrainDelay = time.Second
)

// Config describes how to invoke the analysis script.
type Config struct {
	Command          []string
	WorkingDirectory string
	Timeout          time.Duration
}

// Result captures the output of a successful run.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
	Skipped  bool
}

// ScriptError reports a script that ran but exited unsuccessfully.
type ScriptError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error returns the error string.
func (scriptError *ScriptError) Error() string {
	return fmt.Sprintf(scriptErrorFormat, scriptError.Command, scriptError.ExitCode, scriptError.Stderr)
}

// Diagnostic returns the captured stderr, falling back to the error string.
func (scriptError *ScriptError) Diagnostic() string {
	if scriptError.Stderr != "" {
		return scriptError.Stderr
	}
	return scriptError.Error()
}

// Runner executes the configured command.
type Runner struct {
	config Config
	logger *zap.Logger
}

// NewRunner returns a Runner. An empty command produces a runner whose runs are skipped.
func NewRunner(config Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{config: config, logger: logger}
}

// Run executes the script once, blocking until it exits, the timeout elapses,
// or ctx is canceled. Non-zero exits are returned as *ScriptError.
func (runner *Runner) Run(ctx context.Context) (Result, error) {
	if len(runner.config.Command) == 0 {
		runner.logger.Debug(infoScriptSkippedMessage)
		return Result{Skipped: true}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if runner.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runner.config.Timeout)
		defer cancel()
	}

	commandText := strings.Join(runner.config.Command, " ")
	// #nosec G204
	command := exec.CommandContext(ctx, runner.config.Command[0], runner.config.Command[1:]...)
	command.Dir = runner.config.WorkingDirectory
	command.WaitDelay = outputDrainDelay
	var stdoutBuffer, stderrBuffer bytes.Buffer
	command.Stdout = &stdoutBuffer
	command.Stderr = &stderrBuffer

	startedAt := time.Now()
	runError := command.Run()
	result := Result{
		Stdout:   strings.TrimSpace(stdoutBuffer.String()),
		Stderr:   strings.TrimSpace(stderrBuffer.String()),
		Duration: time.Since(startedAt),
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf(errorTimeoutFormat, commandText, runner.config.Timeout, ctx.Err())
	}
	if runError != nil {
		var exitError *exec.ExitError
		if errors.As(runError, &exitError) {
			return result, &ScriptError{Command: commandText, ExitCode: exitError.ExitCode(), Stderr: result.Stderr}
		}
		return result, fmt.Errorf(errorStartScriptFormat, commandText, runError)
	}

	runner.logger.Info(infoScriptFinishedMessage,
		zap.String("command", commandText),
		zap.Duration("duration", result.Duration),
		zap.String("stdout", result.Stdout),
	)
	return result, nil
}

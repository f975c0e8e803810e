package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxCapturedOutput bounds how much hook stderr is kept for the summary.
const maxCapturedOutput = 2048

// Result records the outcome of one hook run.
type Result struct {
	Hook     Hook
	Err      error
	Duration time.Duration
	Stderr   string
	TimedOut bool
}

// Failed reports whether the hook run failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Executor runs configured hooks with the build context in their
// environment.
type Executor struct {
	config  *Config
	ctx     BuildContext
	results []Result
}

// NewExecutor creates an executor for the given configuration and build
// context.
func NewExecutor(config *Config, ctx BuildContext) *Executor {
	return &Executor{config: config, ctx: ctx}
}

// RunPreBuild runs the pre-build hooks in order. A hook with on_error
// "fail" stops the run and returns its error; the build must not proceed.
func (e *Executor) RunPreBuild(ctx context.Context) error {
	return e.runPhase(ctx, PreBuild)
}

// RunPostBuild runs the post-build hooks in order. Hooks with on_error
// "continue" (the default) log their failure through the results but
// never fail the build.
func (e *Executor) RunPostBuild(ctx context.Context) error {
	return e.runPhase(ctx, PostBuild)
}

func (e *Executor) runPhase(ctx context.Context, phase HookPhase) error {
	var hooks []Hook
	switch phase {
	case PreBuild:
		hooks = e.config.Hooks.PreBuild
	case PostBuild:
		hooks = e.config.Hooks.PostBuild
	}

	for _, hook := range hooks {
		result := e.runHook(ctx, hook)
		e.results = append(e.results, result)
		if result.Failed() && hook.OnError == "fail" {
			return fmt.Errorf("hook %q: %w", hook.Name, result.Err)
		}
	}
	return nil
}

func (e *Executor) runHook(ctx context.Context, hook Hook) Result {
	runCtx, cancel := context.WithTimeout(ctx, hook.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", hook.Command)
	cmd.Env = append(os.Environ(), e.ctx.ToEnv()...)
	for k, v := range hook.Env {
		// Hook-specific variables may reference the build context,
		// e.g. DEST: "backup/$NAUCSE_OUTPUT_DIR".
		cmd.Env = append(cmd.Env, k+"="+os.Expand(v, func(name string) string {
			for _, kv := range e.ctx.ToEnv() {
				if val, ok := strings.CutPrefix(kv, name+"="); ok {
					return val
				}
			}
			return os.Getenv(name)
		}))
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Hook:     hook,
		Err:      err,
		Duration: time.Since(start),
		Stderr:   truncate(stderr.String(), maxCapturedOutput),
	}
	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.Err = fmt.Errorf("timed out after %s", hook.Timeout)
	}
	return result
}

// Results returns the outcomes of all hooks run so far, in order.
func (e *Executor) Results() []Result {
	return e.results
}

// Summary returns a one-line-per-hook report of the runs.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return "No hooks run"
	}

	var sb strings.Builder
	for _, r := range e.results {
		status := "ok"
		switch {
		case r.TimedOut:
			status = "timeout"
		case r.Failed():
			status = "failed"
		}
		fmt.Fprintf(&sb, "%s: %s (%.2fs)\n", r.Hook.Name, status, r.Duration.Seconds())
		if r.Failed() && r.Stderr != "" {
			fmt.Fprintf(&sb, "  %s\n", strings.ReplaceAll(strings.TrimSpace(r.Stderr), "\n", "\n  "))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "... (truncated)"
}

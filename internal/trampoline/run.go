// Package trampoline is the supervisory runtime wrapped around every job
// execution: log rotation, atomic run-state files, signal transparency and
// failure notification. One trampoline process runs per firing; nothing is
// shared between instances except the filesystem.
package trampoline

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// Options are the inputs of one trampoline invocation.
type Options struct {
	JobFile    string
	Args       []string
	JobID      string // from CRONREPO_JID, empty when unset
	ConfigPath string // defaults to DefaultConfigFile
	NoNotify   bool   // interactive/debug mode: suppress NOTIFY
	Signals    Signals
	Now        time.Time // zero means time.Now()
}

// Result is the terminal state of one invocation.
type Result struct {
	ExitCode int  // mirrors the child: exit code, or 128+signal
	Failed   bool // child exited nonzero or died on a signal
}

// Run drives one invocation through STARTING, RUNNING and a terminal
// COMPLETED or FAILED state. A non-nil error is a setup failure: the job
// was never started and no state files were touched beyond what the error
// reports. Job failure itself is not an error; it is the FAILED state,
// reflected in the result.
func Run(opts Options) (Result, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigFile
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	signals := opts.Signals
	if signals == nil {
		signals = OSSignals{}
	}

	// STARTING: everything that can fail before the job exists.
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Result{}, err
	}
	logDir, err := ResolveLogDir(cfg.LogTemplate, now)
	if err != nil {
		return Result{}, err
	}
	name := JobName(opts.JobFile, opts.JobID)
	if err := RotateLog(logDir, name, cfg.Rotate); err != nil {
		return Result{}, err
	}
	logPath := filepath.Join(logDir, name+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	if err := os.WriteFile(stateFile(logDir, name, "running"), nil, 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to create running marker: %w", err)
	}

	// RUNNING: from here on the signal mask keeps bookkeeping intact
	// while the child still receives interactive signals.
	signals.Ignore()

	env := append(os.Environ(),
		"CRONREPO_LOG="+logDir,
		"CRONREPO_NAME="+name,
		"CRONREPO_DATE="+now.Format("2006-01-02"),
	)
	cmd := exec.Command(opts.JobFile, opts.Args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = env

	result, failure := waitChild(cmd)

	// Terminal transition: exactly one of .completed/.failed remains.
	if err := os.Remove(stateFile(logDir, name, "running")); err != nil && !os.IsNotExist(err) {
		return result, fmt.Errorf("failed to remove running marker: %w", err)
	}
	if result.Failed {
		if err := replaceState(logDir, name, "completed", "failed", failure+"\n"); err != nil {
			return result, err
		}
		if cfg.Notify != "" && !opts.NoNotify {
			notify(cfg.Notify, env, logFile)
		}
		return result, nil
	}
	if err := replaceState(logDir, name, "failed", "completed", ""); err != nil {
		return result, err
	}
	return result, nil
}

// waitChild runs the job and maps its exit to a result plus the single
// line recorded in .failed: the exit code, or the negated signal number
// when the child was killed by a signal.
func waitChild(cmd *exec.Cmd) (Result, string) {
	err := cmd.Run()
	if err == nil {
		return Result{ExitCode: 0}, ""
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			sig := int(status.Signal())
			return Result{ExitCode: 128 + sig, Failed: true}, strconv.Itoa(-sig)
		}
		code := exitErr.ExitCode()
		return Result{ExitCode: code, Failed: true}, strconv.Itoa(code)
	}
	// The child could not be started at all (missing file, not
	// executable). Report it the way a shell would.
	return Result{ExitCode: 127, Failed: true}, "127"
}

func stateFile(dir, name, state string) string {
	return filepath.Join(dir, name+"."+state)
}

// replaceState removes the opposite terminal marker and writes the new
// one, so the pair stays mutually exclusive across runs.
func replaceState(dir, name, remove, write, content string) error {
	if err := os.Remove(stateFile(dir, name, remove)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s marker: %w", remove, err)
	}
	if err := os.WriteFile(stateFile(dir, name, write), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s marker: %w", write, err)
	}
	return nil
}

// notify runs the NOTIFY command through the shell with the CRONREPO_*
// variables exported. Notification is best effort: its own failure is
// recorded in the log but never changes the run's outcome.
func notify(command string, env []string, logFile *os.File) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Env = env
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(logFile, "cron-trampoline: notify command failed: %v\n", err)
	}
}

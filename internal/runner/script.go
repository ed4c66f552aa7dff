// Package runner renders the generated runner script: a bash script that
// replays the install-time environment and working directory before handing
// off to the trampoline. The scheduler invokes this script, not the job.
package runner

import (
	"path"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// SkippedEnv is the fixed block-list of environment variables never
// captured into a runner script. They are tied to the invoking terminal
// session and would be stale or misleading under cron.
var SkippedEnv = []string{"COLORTERM", "SSH_AGENT_PID", "SSH_AUTH_SOCK", "_"}

// Render produces the runner script for a target. environ is the captured
// environment in "KEY=VALUE" form, skipPatterns are extra glob patterns of
// variable names to drop, and workDir is the install-time working
// directory. CRONREPO_* variables are always dropped: they are job-scope
// only and are provided per entry by the crontab line and the trampoline.
func Render(target, trampoline string, environ []string, skipPatterns []string, workDir string) string {
	vars := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || skipVar(key, skipPatterns) {
			continue
		}
		vars[key] = value
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	for _, key := range keys {
		b.WriteString("export " + key + "=" + shellquote.Join(vars[key]) + "\n")
	}
	b.WriteString("cd " + shellquote.Join(workDir) + "\n")
	b.WriteString("export CRONREPO_TARGET=" + shellquote.Join(target) + "\n")
	if trampoline != "" {
		b.WriteString("exec " + trampoline + " \"$@\"\n")
	} else {
		b.WriteString("exec \"$@\"\n")
	}
	return b.String()
}

func skipVar(key string, patterns []string) bool {
	for _, fixed := range SkippedEnv {
		if key == fixed {
			return true
		}
	}
	if strings.HasPrefix(key, "CRONREPO_") {
		return true
	}
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, key); err == nil && ok {
			return true
		}
	}
	return false
}

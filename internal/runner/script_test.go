package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_CapturesEnvironment(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin:/bin",
		"HOME=/home/alice",
		"GREETING=hello world",
	}
	script := Render("alice", "cron-trampoline", environ, nil, "/work/repo")
	lines := strings.Split(script, "\n")

	require.Equal(t, "#!/bin/bash", lines[0])
	// Exports are sorted by variable name.
	assert.Equal(t, "export GREETING='hello world'", lines[1])
	assert.Equal(t, "export HOME=/home/alice", lines[2])
	assert.Equal(t, "export PATH=/usr/bin:/bin", lines[3])
	assert.Equal(t, "cd /work/repo", lines[4])
	assert.Equal(t, "export CRONREPO_TARGET=alice", lines[5])
	assert.Equal(t, "exec cron-trampoline \"$@\"", lines[6])
}

func TestRender_BlockList(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin",
		"COLORTERM=truecolor",
		"SSH_AGENT_PID=1234",
		"SSH_AUTH_SOCK=/tmp/agent.sock",
		"_=/usr/bin/env",
		"CRONREPO_JID=stale",
		"CRONREPO_TARGET=stale",
	}
	script := Render("alice", "", environ, nil, "/work")

	assert.Contains(t, script, "export PATH=/usr/bin\n")
	for _, name := range []string{"COLORTERM", "SSH_AGENT_PID", "SSH_AUTH_SOCK"} {
		assert.NotContains(t, script, "export "+name)
	}
	assert.NotContains(t, script, "export _=")
	// CRONREPO_* is job scope only; the single allowed occurrence is the
	// target export the script itself emits.
	assert.NotContains(t, script, "stale")
	assert.Contains(t, script, "export CRONREPO_TARGET=alice\n")
}

func TestRender_SkipPatterns(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin",
		"TMUX=/tmp/tmux-1000/default,42,0",
		"TMUX_PANE=%0",
		"DISPLAY=:0",
	}
	script := Render("alice", "", environ, []string{"TMUX*", "DISPLAY"}, "/work")

	assert.Contains(t, script, "export PATH=")
	assert.NotContains(t, script, "TMUX")
	assert.NotContains(t, script, "DISPLAY")
}

func TestRender_WithoutTrampoline(t *testing.T) {
	script := Render("alice", "", nil, nil, "/work")
	assert.True(t, strings.HasSuffix(script, "exec \"$@\"\n"))
}

func TestRender_QuotesWorkDir(t *testing.T) {
	script := Render("alice", "", nil, nil, "/work/my repo")
	assert.Contains(t, script, "cd '/work/my repo'\n")
}

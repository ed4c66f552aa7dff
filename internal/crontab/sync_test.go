package crontab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/sourceplane/cronrepo/internal/model"
	"github.com/sourceplane/cronrepo/internal/tagline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory crontab for exercising the read-modify-write
// cycle without touching the real crontab.
type fakeStore struct {
	content string
	writes  int
}

func (s *fakeStore) Read() (string, error) { return s.content, nil }

func (s *fakeStore) Write(c string) error {
	s.content = c
	s.writes++
	return nil
}

func mustTag(t *testing.T, file, line string) model.Tag {
	t.Helper()
	tag, perr := tagline.ParseLine(file, 1, line)
	require.Nil(t, perr)
	require.NotNil(t, tag)
	return *tag
}

func testSynchronizer(t *testing.T, store Store) *Synchronizer {
	t.Helper()
	return &Synchronizer{
		Dir:      t.TempDir(),
		Store:    store,
		Environ:  []string{"PATH=/usr/bin"},
		WorkDir:  "/work",
		Hostname: "testhost",
	}
}

func TestGenerate_Golden(t *testing.T) {
	sync := &Synchronizer{Dir: "/repo/cron", Hostname: "testhost"}
	tags := []model.Tag{
		mustTag(t, "/repo/cron/foo", "# CRON@alice::02 18 * * 1-5"),
		mustTag(t, "/repo/cron/foo", "# CRON@alice::2 * * * *"),
		mustTag(t, "/repo/cron/foo", "# CRON@alice::02 18 * * 6"),
		mustTag(t, "/repo/cron/foo", "# CRON@alice::02 18 1 * *"),
		mustTag(t, "/repo/cron/foo", "# CRON@alice%second:5:11-20/2 5 1-7 * 2,4 + foo bar"),
	}

	g := goldie.New(t)
	g.Assert(t, "generate_alice", []byte(sync.Generate("alice", tags)))
}

func TestGenerate_EmptyTarget(t *testing.T) {
	sync := &Synchronizer{Dir: "/repo/cron", Hostname: "testhost"}
	want := "# BEGIN cronrepo generated: alice\n" +
		"# directory: /repo/cron\n" +
		"# END cronrepo generated: alice\n"
	assert.Equal(t, want, sync.Generate("alice", nil))
}

func TestInstall_Idempotent(t *testing.T) {
	store := &fakeStore{content: "MAILTO=ops@example.com\n0 1 * * * /usr/local/bin/backup\n"}
	sync := testSynchronizer(t, store)
	tags := []model.Tag{mustTag(t, filepath.Join(sync.Dir, "foo"), "# CRON@alice::02 18 * * 1-5")}

	require.NoError(t, sync.Install("alice", tags, "cron-trampoline"))
	first := store.content

	require.NoError(t, sync.Install("alice", tags, "cron-trampoline"))
	assert.Equal(t, first, store.content, "second install must be byte-identical")
	assert.Equal(t, 1, store.writes, "unchanged install must not rewrite the store")

	// Unrelated content is preserved byte for byte.
	assert.Contains(t, store.content, "MAILTO=ops@example.com\n0 1 * * * /usr/local/bin/backup\n")
}

func TestInstall_WritesRunnerScript(t *testing.T) {
	store := &fakeStore{}
	sync := testSynchronizer(t, store)
	tags := []model.Tag{mustTag(t, filepath.Join(sync.Dir, "foo"), "# CRON@alice::02 18 * * 1-5")}

	require.NoError(t, sync.Install("alice", tags, "cron-trampoline"))

	script, err := os.ReadFile(sync.RunnerPath("alice"))
	require.NoError(t, err)
	assert.Contains(t, string(script), "#!/bin/bash")
	assert.Contains(t, string(script), "exec cron-trampoline \"$@\"")

	info, err := os.Stat(sync.RunnerPath("alice"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestInstall_ReplacesPreviousBlock(t *testing.T) {
	store := &fakeStore{content: "# keep me\n"}
	sync := testSynchronizer(t, store)
	file := filepath.Join(sync.Dir, "foo")

	require.NoError(t, sync.Install("alice", []model.Tag{
		mustTag(t, file, "# CRON@alice::02 18 * * 1-5"),
	}, ""))
	require.NoError(t, sync.Install("alice", []model.Tag{
		mustTag(t, file, "# CRON@alice::30 6 * * 1-5"),
	}, ""))

	assert.Contains(t, store.content, "# keep me\n")
	assert.Contains(t, store.content, "30 6 * * 1-5")
	assert.NotContains(t, store.content, "2 18 * * 1-5")

	begin, _ := Markers("alice")
	assert.Equal(t, 1, countLines(store.content, begin), "exactly one block per target")
}

func TestInstall_MultipleTargetsCoexist(t *testing.T) {
	store := &fakeStore{}
	sync := testSynchronizer(t, store)
	file := filepath.Join(sync.Dir, "foo")

	require.NoError(t, sync.Install("alice", []model.Tag{
		mustTag(t, file, "# CRON@alice::02 18 * * 1-5"),
	}, ""))
	require.NoError(t, sync.Install("bob", []model.Tag{
		mustTag(t, file, "# CRON@bob::15 7 * * *"),
	}, ""))

	aliceBegin, aliceEnd := Markers("alice")
	bobBegin, bobEnd := Markers("bob")
	for _, marker := range []string{aliceBegin, aliceEnd, bobBegin, bobEnd} {
		assert.Equal(t, 1, countLines(store.content, marker))
	}
}

func TestUninstall(t *testing.T) {
	store := &fakeStore{content: "# keep me\n"}
	sync := testSynchronizer(t, store)
	tags := []model.Tag{mustTag(t, filepath.Join(sync.Dir, "foo"), "# CRON@alice::02 18 * * 1-5")}

	require.NoError(t, sync.Install("alice", tags, ""))
	installed := store.content

	require.NoError(t, sync.Uninstall("alice"))
	assert.Equal(t, "# keep me\n", store.content)
	_, err := os.Stat(sync.RunnerPath("alice"))
	assert.True(t, os.IsNotExist(err), "runner script must be removed")

	// Reinstall reproduces the original single-install result.
	require.NoError(t, sync.Install("alice", tags, ""))
	assert.Equal(t, installed, store.content)
}

func TestUninstall_NeverInstalledIsNoop(t *testing.T) {
	store := &fakeStore{content: "# keep me\n"}
	sync := testSynchronizer(t, store)

	require.NoError(t, sync.Uninstall("ghost"))
	assert.Equal(t, "# keep me\n", store.content)
	assert.Equal(t, 0, store.writes)
}

func TestCommand_InlineJobID(t *testing.T) {
	sync := &Synchronizer{Dir: "/repo/cron", Hostname: "testhost"}
	tag := mustTag(t, "/repo/cron/foo", "# CRON@alice%second::0 0 * * * + foo bar")

	want := "CRONREPO_JID=second /repo/cron/.cronrepo-testhost-alice.sh /repo/cron/foo foo bar"
	assert.Equal(t, want, sync.Command(&tag))
}

func TestCommand_QuotesUnsafeArgs(t *testing.T) {
	sync := &Synchronizer{Dir: "/repo/cron", Hostname: "testhost"}
	tag := model.Tag{Target: "alice", SourceFile: "/repo/cron/foo", Args: []string{"hello world"}}

	assert.Equal(t,
		"/repo/cron/.cronrepo-testhost-alice.sh /repo/cron/foo 'hello world'",
		sync.Command(&tag))
}

func countLines(content, line string) int {
	count := 0
	for _, l := range splitLines(content) {
		if l == line {
			count++
		}
	}
	return count
}

func splitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

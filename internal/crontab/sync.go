// Package crontab synchronizes generated entry blocks into the external
// crontab store. Each target owns one contiguous marker-delimited block;
// everything outside the block is preserved byte for byte.
package crontab

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourceplane/cronrepo/internal/model"
	"github.com/sourceplane/cronrepo/internal/runner"
)

// Synchronizer renders tags for a target into crontab entries and keeps
// the external store and the runner script in step with them.
type Synchronizer struct {
	Dir      string // cron directory (absolute)
	Store    Store
	Environ  []string // captured environment for the runner script
	SkipEnv  []string // extra env blocklist glob patterns
	WorkDir  string   // install-time working directory
	Hostname string   // short hostname, part of the runner script name
}

// Markers returns the begin and end marker lines delimiting the block for
// a target. The target name is encoded in the marker so re-parsing is
// unambiguous.
func Markers(target string) (string, string) {
	return "# BEGIN cronrepo generated: " + target,
		"# END cronrepo generated: " + target
}

// RunnerPath returns the location of the generated runner script for a
// target. The hostname keeps scripts apart when the same directory is
// shared between hosts.
func (s *Synchronizer) RunnerPath(target string) string {
	return filepath.Join(s.Dir, fmt.Sprintf(".cronrepo-%s-%s.sh", s.Hostname, target))
}

// Command renders the command half of the crontab entry for a tag, as it
// would appear after installation.
func (s *Synchronizer) Command(tag *model.Tag) string {
	return commandString(s.RunnerPath(tag.Target), tag)
}

// Generate renders the full marker-delimited block for a target: begin
// marker, directory header, grouped entries, end marker. Pure text, no
// side effects. The result always ends with a newline.
func (s *Synchronizer) Generate(target string, tags []model.Tag) string {
	runnerPath := s.RunnerPath(target)
	begin, end := Markers(target)

	grouped := make(map[group][]*model.Tag)
	for _, tag := range sortTags(tags) {
		g := classify(tag)
		grouped[g] = append(grouped[g], tag)
	}

	lines := []string{begin, "# directory: " + s.Dir}
	for _, g := range groupOrder {
		members := grouped[g]
		if len(members) == 0 {
			continue
		}
		lines = append(lines, "# "+g.header)
		for _, tag := range members {
			lines = append(lines, entryLine(runnerPath, tag))
		}
	}
	lines = append(lines, end, "")
	return strings.Join(lines, "\n")
}

// Install writes the runner script for the target and splices the freshly
// generated block into the external crontab, replacing any previous block
// for the same target. Installing an unchanged tag set is a no-op on the
// store.
func (s *Synchronizer) Install(target string, tags []model.Tag, trampoline string) error {
	script := runner.Render(target, trampoline, s.Environ, s.SkipEnv, s.WorkDir)
	if err := os.WriteFile(s.RunnerPath(target), []byte(script), 0o700); err != nil {
		return fmt.Errorf("failed to write runner script: %w", err)
	}

	existing, err := s.Store.Read()
	if err != nil {
		return err
	}
	next := spliceBlock(existing, target, s.Generate(target, tags))
	if next == existing {
		return nil
	}
	return s.Store.Write(next)
}

// Uninstall removes the target's block from the external crontab and
// deletes its runner script. A target that was never installed is a no-op.
func (s *Synchronizer) Uninstall(target string) error {
	existing, err := s.Store.Read()
	if err != nil {
		return err
	}
	if err := os.Remove(s.RunnerPath(target)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove runner script: %w", err)
	}
	next := stripBlock(existing, target)
	if next == existing {
		return nil
	}
	return s.Store.Write(next)
}

// spliceBlock returns the crontab text with the target's block replaced by
// block (which must end with a newline). The block is appended at the end;
// content outside the old block is preserved unchanged.
func spliceBlock(existing, target, block string) string {
	stripped := stripBlock(existing, target)
	if stripped != "" && !strings.HasSuffix(stripped, "\n") {
		stripped += "\n"
	}
	return stripped + block
}

// stripBlock returns the crontab text with the target's marker-delimited
// block removed. Text without a well-formed block is returned unchanged.
func stripBlock(existing, target string) string {
	begin, end := Markers(target)
	lines := strings.Split(existing, "\n")
	beginIdx, endIdx := -1, -1
	for i, line := range lines {
		if line == begin && beginIdx < 0 {
			beginIdx = i
		}
		if line == end && beginIdx >= 0 && endIdx < 0 {
			endIdx = i
		}
	}
	if beginIdx < 0 || endIdx < 0 {
		return existing
	}
	kept := append([]string{}, lines[:beginIdx]...)
	kept = append(kept, lines[endIdx+1:]...)
	return strings.Join(kept, "\n")
}

// ShortHostname returns the host's name up to the first dot, for use in
// runner script names.
func ShortHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	short, _, _ := strings.Cut(name, ".")
	return short
}

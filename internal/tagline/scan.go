// Package tagline extracts schedule declarations from free-form job files.
//
// A tagline is a single line, embeddable in any comment style:
//
//	CRON@<target>[%<jobID>]:[<level>]:<min> <hour> <day> <mon> <dow>[ + <args...>]
//
// Recognition is two-stage: lines without the CRON@ marker are ignored
// outright; lines carrying it must match the full grammar or they are
// reported as parse errors.
package tagline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sourceplane/cronrepo/internal/model"
	"github.com/sourceplane/cronrepo/internal/schedule"
)

const marker = "CRON@"

var taglineRE = regexp.MustCompile(
	`^CRON@([A-Za-z0-9_]+)` + // target
		`(?:%([A-Za-z0-9_]+))?` + // optional job ID
		`:([0-9]*):` + // level, empty means 0
		`([-,*/0-9]+) ([-,*/0-9]+) ([-,*/0-9]+) ([-,*/0-9]+) ([-,*/0-9]+)` + // five fields
		`(?:\s+\+\s*(.*))?$`) // optional args after +

// ParseLine recognizes one line. It returns (nil, nil) when the line is not
// a tagline at all, and a ParseError when the line carries the CRON@ marker
// but fails the rest of the grammar.
func ParseLine(file string, lineno int, line string) (*model.Tag, *model.ParseError) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return nil, nil
	}
	candidate := strings.TrimRight(line[idx:], " \t\r")
	m := taglineRE.FindStringSubmatch(candidate)
	if m == nil {
		return nil, &model.ParseError{File: file, Line: lineno, Msg: "malformed tagline: " + candidate}
	}
	level := 0
	if m[3] != "" {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, &model.ParseError{File: file, Line: lineno, Msg: "invalid level: " + m[3]}
		}
		level = n
	}
	spec, err := schedule.ParseSpec(m[4], m[5], m[6], m[7], m[8])
	if err != nil {
		return nil, &model.ParseError{File: file, Line: lineno, Msg: err.Error()}
	}
	var args []string
	if m[9] != "" {
		args = strings.Fields(m[9])
	}
	return &model.Tag{
		Target:     m[1],
		JobID:      m[2],
		Level:      level,
		Schedule:   spec,
		Args:       args,
		SourceFile: file,
		SourceLine: lineno,
	}, nil
}

// ScanFile parses one job file. Parse errors do not stop the scan; every
// successfully parsed tag is still returned. The error return is for I/O
// failures only.
func ScanFile(path string) ([]model.Tag, []model.ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read job file: %w", err)
	}
	defer f.Close()

	var tags []model.Tag
	var errs []model.ParseError
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		tag, perr := ParseLine(path, lineno, scanner.Text())
		if perr != nil {
			errs = append(errs, *perr)
			continue
		}
		if tag != nil {
			tags = append(tags, *tag)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}
	return tags, errs, nil
}

// ScanDir parses every job file directly under dir, skipping dotfiles,
// editor backups ("*~", "*.bak") and anything that is not a regular file.
// Symlinks are followed, so a linked job file scans like a plain one. When
// target is non-empty only tags for that target are returned. Each file is
// parsed independently; its parse errors are attributed to it and do not
// halt the scan.
func ScanDir(dir, target string) ([]model.Tag, []model.ParseError, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cron directory %s: %w", dir, err)
	}

	var tags []model.Tag
	var errs []model.ParseError
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".bak") {
			continue
		}
		if !isRegular(entry, filepath.Join(dir, name)) {
			continue
		}
		fileTags, fileErrs, err := ScanFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		errs = append(errs, fileErrs...)
		for _, tag := range fileTags {
			if target != "" && tag.Target != target {
				continue
			}
			tags = append(tags, tag)
		}
	}
	return tags, errs, nil
}

// isRegular reports whether the entry is a regular file, resolving symlinks
// through Stat. A dangling symlink is not regular.
func isRegular(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

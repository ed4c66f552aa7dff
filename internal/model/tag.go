package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sourceplane/cronrepo/internal/schedule"
)

// Tag is one schedule declaration extracted from a job file.
// It is immutable once parsed.
type Tag struct {
	Target     string
	JobID      string // optional, distinguishes multiple tags in one file
	Level      int
	Schedule   schedule.Spec
	Args       []string
	SourceFile string
	SourceLine int // 1-based
}

// Name returns the log basename for the tag: the job file's basename with
// its final extension stripped, "%<jobID>"-suffixed when a job ID is set.
func (t *Tag) Name() string {
	base := filepath.Base(t.SourceFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if t.JobID == "" {
		return base
	}
	return base + "%" + t.JobID
}

// ParseError is a malformed tagline, attributed to its file and line.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// Invocation is one concrete firing of a tag's schedule.
type Invocation struct {
	At  time.Time
	Tag *Tag
}

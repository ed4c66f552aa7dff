package trampoline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/mitchellh/go-homedir"
)

// ResolveLogDir evaluates the LOG directory template for the run date:
// home-directory and environment-variable expansion first, then strftime
// substitution against the date at 00:00:00. The directory is created if
// absent.
func ResolveLogDir(template string, now time.Time) (string, error) {
	expanded, err := homedir.Expand(template)
	if err != nil {
		return "", fmt.Errorf("failed to expand log template: %w", err)
	}
	expanded = os.ExpandEnv(expanded)

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dir, err := strftime.Format(expanded, midnight)
	if err != nil {
		return "", fmt.Errorf("invalid log template %q: %w", template, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return dir, nil
}

// JobName resolves the log basename for a job file: the basename with its
// final extension stripped, "%<jobID>"-suffixed when the job ID is set.
func JobName(jobFile, jobID string) string {
	base := filepath.Base(jobFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if jobID == "" {
		return base
	}
	return base + "%" + jobID
}

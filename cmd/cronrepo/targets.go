package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sourceplane/cronrepo/internal/config"
	"github.com/sourceplane/cronrepo/internal/crontab"
	"github.com/sourceplane/cronrepo/internal/model"
	"github.com/sourceplane/cronrepo/internal/tagline"
)

// loadTags scans the cron directory and fails closed: every parse error is
// printed to stderr and any of them aborts the command, so a partially
// specified crontab is never generated or installed.
func loadTags(dir, target string) (string, []model.Tag, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve cron directory: %w", err)
	}
	tags, parseErrs, err := tagline.ScanDir(absDir, target)
	if err != nil {
		return "", nil, err
	}
	if len(parseErrs) > 0 {
		for _, parseErr := range parseErrs {
			fmt.Fprintln(os.Stderr, parseErr.Error())
		}
		return "", nil, fmt.Errorf("%d malformed tagline(s) in %s", len(parseErrs), absDir)
	}
	return absDir, tags, nil
}

// groupByTarget splits tags into per-target sets; each target is
// synchronized independently.
func groupByTarget(tags []model.Tag) map[string][]model.Tag {
	byTarget := make(map[string][]model.Tag)
	for _, tag := range tags {
		byTarget[tag.Target] = append(byTarget[tag.Target], tag)
	}
	return byTarget
}

func sortedTargets(byTarget map[string][]model.Tag) []string {
	targets := make([]string, 0, len(byTarget))
	for target := range byTarget {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// selectTargets returns the targets to operate on: the explicit one when
// given (even if it currently has no tags), otherwise every target found.
func selectTargets(byTarget map[string][]model.Tag, explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	return sortedTargets(byTarget)
}

func newSynchronizer(dir string, cfg *config.Config) (*crontab.Synchronizer, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return &crontab.Synchronizer{
		Dir:      dir,
		Store:    crontab.SystemStore{},
		Environ:  os.Environ(),
		SkipEnv:  cfg.SkipEnv,
		WorkDir:  workDir,
		Hostname: crontab.ShortHostname(),
	}, nil
}

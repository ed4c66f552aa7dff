package main

import (
	"fmt"
	"path/filepath"

	"github.com/sourceplane/cronrepo/internal/config"
	"github.com/spf13/cobra"
)

var uninstallTarget string

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <dir>",
	Short: "Remove installed entries from the crontab",
	Long:  "Remove the generated crontab block and the runner script for each target. A target that was never installed is a no-op.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUninstall(args[0])
	},
}

func registerUninstallCommand(root *cobra.Command) {
	root.AddCommand(uninstallCmd)

	uninstallCmd.Flags().StringVarP(&uninstallTarget, "target", "t", "", "Only uninstall this target (default: all targets found in the directory)")
}

func runUninstall(dir string) error {
	var absDir string
	var targets []string
	if uninstallTarget != "" {
		resolved, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve cron directory: %w", err)
		}
		absDir = resolved
		targets = []string{uninstallTarget}
	} else {
		resolved, tags, err := loadTags(dir, "")
		if err != nil {
			return err
		}
		absDir = resolved
		targets = sortedTargets(groupByTarget(tags))
	}

	sync, err := newSynchronizer(absDir, &config.Config{})
	if err != nil {
		return err
	}
	for _, target := range targets {
		if err := sync.Uninstall(target); err != nil {
			return err
		}
		fmt.Printf("✓ Uninstalled target %s\n", target)
	}
	return nil
}

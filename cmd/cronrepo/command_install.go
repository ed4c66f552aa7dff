package main

import (
	"fmt"

	"github.com/sourceplane/cronrepo/internal/config"
	"github.com/spf13/cobra"
)

// defaultTrampoline is the bundled trampoline binary, expected on PATH.
const defaultTrampoline = "cron-trampoline"

var (
	installTarget     string
	installTrampoline string
)

var installCmd = &cobra.Command{
	Use:   "install <dir>",
	Short: "Install the generated entries into the crontab",
	Long:  "Write the runner script for each target and splice the generated entry block into the user's crontab, replacing any previously installed block.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(args[0])
	},
}

func registerInstallCommand(root *cobra.Command) {
	root.AddCommand(installCmd)

	installCmd.Flags().StringVarP(&installTarget, "target", "t", "", "Only install this target (default: all targets)")
	installCmd.Flags().StringVar(&installTrampoline, "trampoline", "", "Trampoline command invoked by the runner script")
}

func runInstall(dir string) error {
	absDir, tags, err := loadTags(dir, installTarget)
	if err != nil {
		return err
	}
	cfg, err := config.Load(absDir)
	if err != nil {
		return err
	}
	trampoline := installTrampoline
	if trampoline == "" {
		trampoline = cfg.Trampoline
	}
	if trampoline == "" {
		trampoline = defaultTrampoline
	}
	sync, err := newSynchronizer(absDir, cfg)
	if err != nil {
		return err
	}

	byTarget := groupByTarget(tags)
	for _, target := range selectTargets(byTarget, installTarget) {
		targetTags := byTarget[target]
		if err := sync.Install(target, targetTags, trampoline); err != nil {
			return err
		}
		fmt.Printf("✓ Installed %d entries for target %s\n", len(targetTags), target)
	}
	return nil
}

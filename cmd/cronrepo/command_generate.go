package main

import (
	"fmt"

	"github.com/sourceplane/cronrepo/internal/config"
	"github.com/spf13/cobra"
)

var generateTarget string

var generateCmd = &cobra.Command{
	Use:   "generate <dir>",
	Short: "Render the crontab entries for a cron directory",
	Long:  "Render the marker-delimited crontab blocks for the taglines found in the directory and print them on stdout, without touching the crontab.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(args[0])
	},
}

func registerGenerateCommand(root *cobra.Command) {
	root.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateTarget, "target", "t", "", "Only render this target (default: all targets)")
}

func runGenerate(dir string) error {
	absDir, tags, err := loadTags(dir, generateTarget)
	if err != nil {
		return err
	}
	cfg, err := config.Load(absDir)
	if err != nil {
		return err
	}
	sync, err := newSynchronizer(absDir, cfg)
	if err != nil {
		return err
	}

	byTarget := groupByTarget(tags)
	for _, target := range selectTargets(byTarget, generateTarget) {
		fmt.Print(sync.Generate(target, byTarget[target]))
	}
	return nil
}

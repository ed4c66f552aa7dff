package main

import (
	"fmt"
	"os"

	"github.com/sourceplane/cronrepo/internal/trampoline"
	"github.com/spf13/cobra"
)

// newTrampolineCommand builds the CLI around run. Flag parsing stops at the
// job file: everything after it belongs to the job, so dash-leading job args
// pass through untouched. The job's exit code is written to exitCode.
func newTrampolineCommand(run func(trampoline.Options) (trampoline.Result, error), exitCode *int) *cobra.Command {
	var configPath string
	var noNotify bool

	cmd := &cobra.Command{
		Use:           "cron-trampoline <jobfile> [args...]",
		Short:         "Run one cron job under log and run-state supervision",
		Long:          "cron-trampoline rotates the job's log, tracks its run state through marker files, shields its own bookkeeping from interactive signals and notifies on failure. Its exit code mirrors the job's.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := run(trampoline.Options{
				JobFile:    args[0],
				Args:       args[1:],
				JobID:      os.Getenv("CRONREPO_JID"),
				ConfigPath: configPath,
				NoNotify:   noNotify,
			})
			if err != nil {
				return err
			}
			*exitCode = result.ExitCode
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&configPath, "config", "", "Trampoline config file (default "+trampoline.DefaultConfigFile+")")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "Suppress the NOTIFY command on failure (interactive runs)")
	return cmd
}

func main() {
	exitCode := 0
	cmd := newTrampolineCommand(trampoline.Run, &exitCode)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cron-trampoline:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

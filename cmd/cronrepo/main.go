package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "cronrepo",
	Short:        "Keep the crontab in sync with tagged job files",
	Long:         "cronrepo scans a directory of job files for CRON@ taglines and keeps the user's crontab synchronized with the schedules they declare.",
	SilenceUsage: true,
}

func init() {
	registerGenerateCommand(rootCmd)
	registerInstallCommand(rootCmd)
	registerUninstallCommand(rootCmd)
	registerListInvCommand(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

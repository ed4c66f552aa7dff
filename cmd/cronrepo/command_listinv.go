package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/sourceplane/cronrepo/internal/config"
	"github.com/sourceplane/cronrepo/internal/model"
	"github.com/sourceplane/cronrepo/internal/schedule"
	"github.com/spf13/cobra"
)

const invTimeLayout = "2006-01-02T15:04"

var (
	listTarget   string
	listMinLevel int
	listStart    string
	listEnd      string
)

var listInvCmd = &cobra.Command{
	Use:   "list-inv <dir>",
	Short: "List concrete invocation times of the scheduled jobs",
	Long:  "Enumerate every minute in the given range at which the matching taglines would fire, and print one runnable entry per invocation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListInv(args[0])
	},
}

func registerListInvCommand(root *cobra.Command) {
	root.AddCommand(listInvCmd)

	listInvCmd.Flags().StringVarP(&listTarget, "target", "t", "", "Only list this target (default: all targets)")
	listInvCmd.Flags().IntVar(&listMinLevel, "minlevel", 0, "Only list jobs with at least this level")
	listInvCmd.Flags().StringVar(&listStart, "start", "", "Start of the range, YYYY-mm-ddTHH:MM")
	listInvCmd.Flags().StringVar(&listEnd, "end", "", "End of the range (inclusive), YYYY-mm-ddTHH:MM")
	listInvCmd.MarkFlagRequired("start")
	listInvCmd.MarkFlagRequired("end")
}

// collectInvocations enumerates the firings of every tag at or above
// minLevel within [start, end], merged in time order. The stable sort keeps
// tag scan order on simultaneous firings.
func collectInvocations(tags []model.Tag, minLevel int, start, end time.Time) []model.Invocation {
	var invocations []model.Invocation
	for i := range tags {
		tag := &tags[i]
		if tag.Level < minLevel {
			continue
		}
		for _, at := range schedule.Enumerate(tag.Schedule, start, end) {
			invocations = append(invocations, model.Invocation{At: at, Tag: tag})
		}
	}
	sort.SliceStable(invocations, func(i, j int) bool {
		return invocations[i].At.Before(invocations[j].At)
	})
	return invocations
}

// invocationLines renders one two-line entry per invocation: a comment
// identifying the firing and the installed command as it would run.
func invocationLines(inv model.Invocation, command string) string {
	return fmt.Sprintf("# date=%s time=%s name=%s jid=%s level=%d\n%s",
		inv.At.Format("2006-01-02"),
		inv.At.Format("15:04"),
		filepath.Base(inv.Tag.SourceFile),
		inv.Tag.JobID,
		inv.Tag.Level,
		command)
}

func runListInv(dir string) error {
	// Range validation comes first; a bad range is an argument error, not
	// a scan result.
	start, err := time.ParseInLocation(invTimeLayout, listStart, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --start %q: expected %s", listStart, invTimeLayout)
	}
	end, err := time.ParseInLocation(invTimeLayout, listEnd, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --end %q: expected %s", listEnd, invTimeLayout)
	}
	if end.Before(start) {
		return fmt.Errorf("--start %s is after --end %s", listStart, listEnd)
	}

	absDir, tags, err := loadTags(dir, listTarget)
	if err != nil {
		return err
	}
	sync, err := newSynchronizer(absDir, &config.Config{})
	if err != nil {
		return err
	}

	for _, inv := range collectInvocations(tags, listMinLevel, start, end) {
		fmt.Println(invocationLines(inv, sync.Command(inv.Tag)))
	}
	return nil
}

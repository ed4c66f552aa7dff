package crontab

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/sourceplane/cronrepo/internal/model"
)

// Entry grouping mirrors how an operator reads a crontab: the generated
// block is sorted into labelled sections by firing cadence.
type group struct {
	order  int
	header string
}

var (
	groupFrequent = group{1, "More frequent than daily"}
	groupWeekend  = group{3, "Weekends"}
	groupMonthly  = group{4, "Monthly"}
	groupWeekday  = group{5, "Weekdays"}

	groupOrder = []group{groupFrequent, groupWeekend, groupMonthly, groupWeekday}
)

// classify buckets a tag by the shape of its canonical fields.
func classify(tag *model.Tag) group {
	minute := tag.Schedule.Minute.String()
	hour := tag.Schedule.Hour.String()
	day := tag.Schedule.Day.String()
	weekday := tag.Schedule.Weekday.String()
	switch {
	case strings.ContainsAny(minute, ",-/*") || strings.ContainsAny(hour, ",-/*"):
		return groupFrequent
	case !strings.ContainsAny(weekday, "12345-*"):
		return groupWeekend
	case !strings.ContainsAny(day, "-*"):
		return groupMonthly
	default:
		return groupWeekday
	}
}

// sortKey orders entries within the block: weekday-spread jobs first as if
// unconstrained, then by hour, minute and name.
func sortKey(tag *model.Tag) string {
	weekday := tag.Schedule.Weekday.String()
	if weekday == "1-5" {
		weekday = "*"
	}
	return strings.Join([]string{
		weekday,
		tag.Schedule.Hour.String(),
		tag.Schedule.Minute.String(),
		tag.Name(),
	}, "\x00")
}

// sortTags returns tags in stable block order.
func sortTags(tags []model.Tag) []*model.Tag {
	sorted := make([]*model.Tag, len(tags))
	for i := range tags {
		sorted[i] = &tags[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]) < sortKey(sorted[j])
	})
	return sorted
}

// commandString renders the command half of a crontab entry: the inline
// job-ID export when present, then the runner (or direct command) with the
// job file path and the tag's args.
func commandString(runnerPath string, tag *model.Tag) string {
	words := append([]string{runnerPath, tag.SourceFile}, tag.Args...)
	cmd := shellquote.Join(words...)
	if tag.JobID != "" {
		cmd = "CRONREPO_JID=" + tag.JobID + " " + cmd
	}
	return cmd
}

// entryLine renders one full crontab entry for a tag.
func entryLine(runnerPath string, tag *model.Tag) string {
	return tag.Schedule.String() + " " + commandString(runnerPath, tag)
}

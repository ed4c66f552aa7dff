package schedule

import (
	"strings"
	"time"
)

// Spec is the five-field time predicate of one cron schedule.
type Spec struct {
	Minute  Field
	Hour    Field
	Day     Field
	Month   Field
	Weekday Field
}

// ParseSpec parses the five space-separated cron fields.
func ParseSpec(minute, hour, day, month, weekday string) (Spec, error) {
	var spec Spec
	var err error
	if spec.Minute, err = ParseField(minute, Minutes); err != nil {
		return Spec{}, err
	}
	if spec.Hour, err = ParseField(hour, Hours); err != nil {
		return Spec{}, err
	}
	if spec.Day, err = ParseField(day, Days); err != nil {
		return Spec{}, err
	}
	if spec.Month, err = ParseField(month, Months); err != nil {
		return Spec{}, err
	}
	if spec.Weekday, err = ParseField(weekday, Weekdays); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// String renders the spec as five canonical space-joined cron fields.
func (s Spec) String() string {
	return strings.Join([]string{
		s.Minute.String(),
		s.Hour.String(),
		s.Day.String(),
		s.Month.String(),
		s.Weekday.String(),
	}, " ")
}

// MatchesTime reports whether the spec fires at t, at minute resolution.
func (s Spec) MatchesTime(t time.Time) bool {
	if !s.Minute.Matches(t.Minute()) {
		return false
	}
	if !s.Hour.Matches(t.Hour()) {
		return false
	}
	if !s.Month.Matches(int(t.Month())) {
		return false
	}
	return s.matchesDay(t)
}

// matchesDay applies the cron day rule: when both day-of-month and
// day-of-week are restricted, a day matches if either does; a wildcard
// field places no constraint.
func (s Spec) matchesDay(t time.Time) bool {
	dayOK := s.Day.Matches(t.Day())
	dowOK := s.Weekday.Matches(int(t.Weekday()))
	switch {
	case s.Day.Wildcard() && s.Weekday.Wildcard():
		return true
	case s.Day.Wildcard():
		return dowOK
	case s.Weekday.Wildcard():
		return dayOK
	default:
		return dayOK || dowOK
	}
}

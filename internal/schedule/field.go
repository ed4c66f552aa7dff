package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Domain bounds the values a cron field may take.
type Domain struct {
	Name string
	Lo   int
	Hi   int
}

// The five field domains of a cron schedule.
var (
	Minutes  = Domain{"minute", 0, 59}
	Hours    = Domain{"hour", 0, 23}
	Days     = Domain{"day", 1, 31}
	Months   = Domain{"month", 1, 12}
	Weekdays = Domain{"day-of-week", 0, 6} // 0 = Sunday
)

// term is one comma-separated component of a field.
type term struct {
	wild   bool // "*" or "*/step"
	single bool // bare value, lo == hi
	lo     int
	hi     int
	step   int // 0 when unstepped
}

func (t term) matches(v int) bool {
	if t.single {
		return v == t.lo
	}
	if v < t.lo || v > t.hi {
		return false
	}
	return t.step == 0 || (v-t.lo)%t.step == 0
}

func (t term) String() string {
	switch {
	case t.wild && t.step == 0:
		return "*"
	case t.wild:
		return "*/" + strconv.Itoa(t.step)
	case t.single:
		return strconv.Itoa(t.lo)
	case t.step == 0:
		return fmt.Sprintf("%d-%d", t.lo, t.hi)
	default:
		return fmt.Sprintf("%d-%d/%d", t.lo, t.hi, t.step)
	}
}

// Field is the matching rule for one position of a cron schedule.
// A Field with more than one term matches when any term matches.
type Field struct {
	dom   Domain
	terms []term
}

// ParseField parses one cron field: "*", a bare value, "lo-hi",
// "lo-hi/step", "*/step", or a comma-joined list of the foregoing.
// Values outside the domain, inverted ranges and non-positive steps
// are errors.
func ParseField(text string, dom Domain) (Field, error) {
	if text == "" {
		return Field{}, fmt.Errorf("empty %s field", dom.Name)
	}
	f := Field{dom: dom}
	for _, part := range strings.Split(text, ",") {
		t, err := parseTerm(part, dom)
		if err != nil {
			return Field{}, err
		}
		f.terms = append(f.terms, t)
	}
	return f, nil
}

func parseTerm(text string, dom Domain) (term, error) {
	if text == "*" {
		return term{wild: true, lo: dom.Lo, hi: dom.Hi}, nil
	}
	body, stepText, stepped := strings.Cut(text, "/")
	step := 0
	if stepped {
		n, err := strconv.Atoi(stepText)
		if err != nil {
			return term{}, fmt.Errorf("invalid step %q in %s field", stepText, dom.Name)
		}
		if n <= 0 {
			return term{}, fmt.Errorf("step must be positive in %s field, got %d", dom.Name, n)
		}
		step = n
	}
	if body == "*" {
		return term{wild: true, lo: dom.Lo, hi: dom.Hi, step: step}, nil
	}
	loText, hiText, ranged := strings.Cut(body, "-")
	lo, err := parseValue(loText, dom)
	if err != nil {
		return term{}, err
	}
	if !ranged {
		if stepped {
			return term{}, fmt.Errorf("step requires a range in %s field: %q", dom.Name, text)
		}
		return term{single: true, lo: lo, hi: lo}, nil
	}
	hi, err := parseValue(hiText, dom)
	if err != nil {
		return term{}, err
	}
	if lo > hi {
		return term{}, fmt.Errorf("inverted range %d-%d in %s field", lo, hi, dom.Name)
	}
	return term{lo: lo, hi: hi, step: step}, nil
}

func parseValue(text string, dom Domain) (int, error) {
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid value %q in %s field", text, dom.Name)
		}
	}
	if text == "" {
		return 0, fmt.Errorf("missing value in %s field", dom.Name)
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q in %s field", text, dom.Name)
	}
	if v < dom.Lo || v > dom.Hi {
		return 0, fmt.Errorf("%s value %d out of range %d-%d", dom.Name, v, dom.Lo, dom.Hi)
	}
	return v, nil
}

// Matches reports whether v satisfies the field.
func (f Field) Matches(v int) bool {
	for _, t := range f.terms {
		if t.matches(v) {
			return true
		}
	}
	return false
}

// Wildcard reports whether the field contains an unstepped "*" term,
// i.e. places no constraint on its position.
func (f Field) Wildcard() bool {
	for _, t := range f.terms {
		if t.wild && t.step == 0 {
			return true
		}
	}
	return false
}

// String renders the field in canonical cron syntax. Parsing the result
// yields an equivalent field.
func (f Field) String() string {
	parts := make([]string, len(f.terms))
	for i, t := range f.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

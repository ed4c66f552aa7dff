package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		dom   Domain
		canon string
	}{
		{name: "wildcard", text: "*", dom: Minutes, canon: "*"},
		{name: "single", text: "5", dom: Minutes, canon: "5"},
		{name: "zero padded single", text: "02", dom: Hours, canon: "2"},
		{name: "range", text: "1-10", dom: Minutes, canon: "1-10"},
		{name: "stepped range", text: "1-10/2", dom: Minutes, canon: "1-10/2"},
		{name: "full domain step", text: "*/15", dom: Minutes, canon: "*/15"},
		{name: "list", text: "2,4", dom: Weekdays, canon: "2,4"},
		{name: "mixed list", text: "0,10-20/5,*", dom: Minutes, canon: "0,10-20/5,*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := ParseField(tt.text, tt.dom)
			require.NoError(t, err)
			assert.Equal(t, tt.canon, field.String())

			// Canonical rendering must re-parse to an equivalent field.
			again, err := ParseField(field.String(), tt.dom)
			require.NoError(t, err)
			assert.Equal(t, field.String(), again.String())
			for v := tt.dom.Lo; v <= tt.dom.Hi; v++ {
				assert.Equal(t, field.Matches(v), again.Matches(v), "value %d", v)
			}
		})
	}
}

func TestParseField_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		dom  Domain
	}{
		{name: "empty", text: "", dom: Minutes},
		{name: "out of domain single", text: "60", dom: Minutes},
		{name: "out of domain range hi", text: "10-99", dom: Minutes},
		{name: "out of domain month", text: "0", dom: Months},
		{name: "inverted range", text: "10-5", dom: Minutes},
		{name: "zero step", text: "1-10/0", dom: Minutes},
		{name: "negative step", text: "1-10/-2", dom: Minutes},
		{name: "step without range", text: "5/2", dom: Minutes},
		{name: "garbage", text: "abc", dom: Minutes},
		{name: "signed value", text: "+5", dom: Minutes},
		{name: "empty list member", text: "1,,3", dom: Minutes},
		{name: "dangling range", text: "1-", dom: Minutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseField(tt.text, tt.dom)
			assert.Error(t, err)
		})
	}
}

func TestField_Matches(t *testing.T) {
	steps, err := ParseField("1-10/2", Minutes)
	require.NoError(t, err)

	// (v-1) mod 2 == 0 within 1..10: the odd minutes.
	var matched []int
	for v := 0; v <= 59; v++ {
		if steps.Matches(v) {
			matched = append(matched, v)
		}
	}
	assert.Equal(t, []int{1, 3, 5, 7, 9}, matched)

	list, err := ParseField("2,4", Weekdays)
	require.NoError(t, err)
	assert.True(t, list.Matches(2))
	assert.True(t, list.Matches(4))
	assert.False(t, list.Matches(3))
	assert.False(t, list.Matches(0))

	wild, err := ParseField("*", Hours)
	require.NoError(t, err)
	for v := 0; v <= 23; v++ {
		assert.True(t, wild.Matches(v))
	}
}

func TestField_Wildcard(t *testing.T) {
	tests := []struct {
		text string
		dom  Domain
		want bool
	}{
		{"*", Days, true},
		{"*/2", Days, false}, // stepped: still a constraint
		{"1-31", Days, false},
		{"5", Days, false},
		{"5,*", Days, true}, // a bare * in a list lifts the constraint
	}
	for _, tt := range tests {
		field, err := ParseField(tt.text, tt.dom)
		require.NoError(t, err)
		assert.Equal(t, tt.want, field.Wildcard(), "field %q", tt.text)
	}
}

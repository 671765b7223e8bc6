package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWeekdaySet(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []time.Weekday
		wantErr bool
	}{
		{name: "empty string", raw: "", want: nil},
		{name: "two days", raw: `{"monday":true,"wednesday":true}`, want: []time.Weekday{time.Monday, time.Wednesday}},
		{name: "false entries ignored", raw: `{"monday":false,"friday":true}`, want: []time.Weekday{time.Friday}},
		{name: "capitalized names", raw: `{"Sunday":true}`, want: []time.Weekday{time.Sunday}},
		{name: "truthy values", raw: `{"tuesday":1,"thursday":"yes","saturday":0}`, want: []time.Weekday{time.Tuesday, time.Thursday}},
		{name: "unknown keys ignored", raw: `{"someday":true}`, want: nil},
		{name: "malformed", raw: `{monday:true`, want: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := DecodeWeekdaySet(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, set)
			assert.Equal(t, tt.want, set.Days())
		})
	}
}

func TestWeekdaySet_Encode(t *testing.T) {
	set := NewWeekdaySet(time.Wednesday, time.Monday)
	assert.Equal(t, `{"monday":true,"wednesday":true}`, set.Encode())

	decoded, err := DecodeWeekdaySet(set.Encode())
	require.NoError(t, err)
	assert.Equal(t, set.Days(), decoded.Days())

	assert.Equal(t, "", WeekdaySet{}.Encode())
	assert.Equal(t, "", WeekdaySet(nil).Encode())
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "monday", WeekdayName(time.Monday))
	assert.Equal(t, "sunday", WeekdayName(time.Sunday))

	d, ok := ParseWeekday("Friday")
	assert.True(t, ok)
	assert.Equal(t, time.Friday, d)

	_, ok = ParseWeekday("funday")
	assert.False(t, ok)
}

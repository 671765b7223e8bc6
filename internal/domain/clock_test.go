package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Clock
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "06:15", want: 375},
		{name: "single digit hour", input: "7:05", want: 425},
		{name: "end of day sentinel", input: "24:00", want: EndOfDay},
		{name: "past end of day", input: "24:30", wantErr: true},
		{name: "bad minutes", input: "10:75", wantErr: true},
		{name: "missing colon", input: "1000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClockOrZero(t *testing.T) {
	c, ok := ParseClockOrZero("garbage")
	assert.False(t, ok)
	assert.Equal(t, Clock(0), c)

	c, ok = ParseClockOrZero("13:45")
	assert.True(t, ok)
	assert.Equal(t, Clock(13*60+45), c)
}

func TestClock_String(t *testing.T) {
	assert.Equal(t, "00:00", Clock(0).String())
	assert.Equal(t, "09:05", Clock(545).String())
	assert.Equal(t, "24:00", EndOfDay.String())
}

func TestClock_Add(t *testing.T) {
	assert.Equal(t, MustParseClock("10:30"), MustParseClock("10:00").Add(30))
	assert.Equal(t, Clock(0), MustParseClock("00:10").Add(-30))
	assert.Equal(t, EndOfDay, MustParseClock("23:50").Add(30))
}

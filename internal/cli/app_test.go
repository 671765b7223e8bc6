package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner/internal/domain"
)

func TestParseDateShorthand(t *testing.T) {
	today := domain.MustParseDate("2024-01-31")

	tests := []struct {
		name           string
		input          string
		expected       string
		errorAssertion require.ErrorAssertionFunc
	}{
		{name: "empty is today", input: "", expected: "2024-01-31", errorAssertion: require.NoError},
		{name: "today", input: "today", expected: "2024-01-31", errorAssertion: require.NoError},
		{name: "tomorrow crosses month", input: "Tomorrow", expected: "2024-02-01", errorAssertion: require.NoError},
		{name: "yesterday", input: "yesterday", expected: "2024-01-30", errorAssertion: require.NoError},
		{name: "plus days", input: "+3d", expected: "2024-02-03", errorAssertion: require.NoError},
		{name: "minus weeks", input: "-2w", expected: "2024-01-17", errorAssertion: require.NoError},
		{name: "months normalize", input: "1mo", expected: "2024-03-02", errorAssertion: require.NoError},
		{name: "years", input: "+1y", expected: "2025-01-31", errorAssertion: require.NoError},
		{name: "iso date", input: "2024-06-15", expected: "2024-06-15", errorAssertion: require.NoError},
		{name: "garbage", input: "next tuesday", errorAssertion: require.Error},
		{name: "bad unit", input: "+3h", errorAssertion: require.Error},
		{name: "impossible date", input: "2024-02-30", errorAssertion: require.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateShorthand(tt.input, today)
			tt.errorAssertion(t, err)
			if err == nil {
				assert.Equal(t, tt.expected, got.String())
			}
		})
	}
}

func TestApp_Today(t *testing.T) {
	app, _ := setupApp(t)
	assert.Equal(t, "2024-01-08", app.Today().String())
}

package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		typ  OutputType
		want string
	}{
		{Summary, "Give a short study summary for: Photosynthesis"},
		{DetailedPlan, "Give a very detailed step-by-step study plan for: Photosynthesis"},
		{TimeTable, "Create a full weekly timetable for: Photosynthesis"},
		{TipsAndMotivation, "Give motivation tips, consistency hacks & habits for: Photosynthesis"},
		{Quiz, "Create a 10-question quiz for: Photosynthesis"},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			require.Equal(t, tc.want, Prompt(tc.typ, "Photosynthesis"))
		})
	}
}

func TestPrompt_UnknownTypePanics(t *testing.T) {
	require.Panics(t, func() { Prompt(OutputType(42), "x") })
}

func TestQuizPrompt(t *testing.T) {
	require.Equal(t, "Create a 10-question quiz on: Cell biology", QuizPrompt("Cell biology"))
}

func TestParseOutputType(t *testing.T) {
	for _, typ := range OutputTypes {
		got, err := ParseOutputType(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ, got)
	}

	got, err := ParseOutputType("  time table ")
	require.NoError(t, err)
	require.Equal(t, TimeTable, got)

	_, err = ParseOutputType("Poem")
	require.Error(t, err)
}

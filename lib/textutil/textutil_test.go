package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitRosterName(t *testing.T) {
	testCases := []struct {
		in     string
		family string
		given  string
	}{
		{"Doe,Jane", "Doe", "Jane"},
		{"Doe,Jane Q", "Doe", "Jane Q"},
		{"Cher", "Cher", ""},
		{"", "", ""},
	}
	for _, test := range testCases {
		family, given := SplitRosterName(test.in)
		require.Equal(t, test.family, family, test.in)
		require.Equal(t, test.given, given, test.in)
	}
}

func TestUnpackProgramPlan(t *testing.T) {
	program, plan := UnpackProgramPlan("UA-Coll of Arts & Sci - \n\nUndecided")
	require.Equal(t, "UA-Coll of Arts & Sci", program)
	require.Equal(t, "Undecided", plan)

	program, plan = UnpackProgramPlan("GA-Grad Sch of Arts & Sci - \nMathematics")
	require.Equal(t, "GA-Grad Sch of Arts & Sci", program)
	require.Equal(t, "Mathematics", plan)

	program, plan = UnpackProgramPlan("Undeclared")
	require.Equal(t, "Undeclared", program)
	require.Empty(t, plan)
}

func TestFileStem(t *testing.T) {
	require.Equal(t, "Jane_Q_Doe", FileStem("Jane Q Doe"))
	require.Equal(t, "", FileStem(""))
}

package textutil

import (
	"regexp"
	"strings"
)

// SplitRosterName splits Albert's "Family,Given Names" form. A name with
// no comma comes back entirely as the family name; a record like that is
// passed through rather than rejected.
func SplitRosterName(name string) (family, given string) {
	family, given, _ = strings.Cut(name, ",")
	return family, given
}

var programPlanSep = regexp.MustCompile(` - \n+`)

// UnpackProgramPlan splits a program-and-plan string like
//
//	"UA-Coll of Arts & Sci - \n\nUndecided"
//
// into its program and plan parts. Input without the separator yields
// the whole string as the program and an empty plan.
func UnpackProgramPlan(progplan string) (program, plan string) {
	parts := programPlanSep.Split(progplan, 2)
	if len(parts) < 2 {
		return progplan, ""
	}
	return parts[0], parts[1]
}

// FileStem sanitizes a display name for use as a file name. Not
// guaranteed unique.
func FileStem(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

package albert

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leingang/ps2vcard/lib/telemetry"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, doc string) (Course, map[int]Student) {
	t.Helper()
	course, students, err := NewParser().Parse(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	return course, students
}

func TestParseNoRecognizedKeys(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:albert")
	defer cleanup()

	course, students := parseString(t, `
		<html><body>
			<div id="PAGECONTAINER"><p>Nothing to see here &amp; nothing more.</p></div>
		</body></html>
	`)
	require.Empty(t, course)
	require.Empty(t, students)
	require.NotNil(t, course)
	require.NotNil(t, students)
}

func TestParseCourseFields(t *testing.T) {
	course, students := parseString(t, `
		<span id="DERIVED_SSR_FC_SSR_CLASSNAME_LONG">MATH-UA 121</span>
		<span id="DERIVED_SSR_FC_DESCR254">Calculus I</span>
		<span id="MTG_INSTR$0">Leibniz, Gottfried</span>
		<span id="MTG_SCHED$0">MoWe 9:30AM - 10:45AM</span>
		<span id="MTG_LOC$0">CIWW 109</span>
		<span id="MTG_DATE$0">01/23/2017 - 05/08/2017</span>
	`)
	require.Empty(t, students)

	expected := Course{
		FieldCode:       "MATH-UA 121",
		FieldName:       "Calculus I",
		FieldInstructor: "Leibniz, Gottfried",
		FieldSchedule:   "MoWe 9:30AM - 10:45AM",
		FieldRoom:       "CIWW 109",
		FieldDates:      "01/23/2017 - 05/08/2017",
	}
	if diff := cmp.Diff(expected, course); diff != "" {
		t.Fatalf("course mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDescriptionUnpacks(t *testing.T) {
	course, _ := parseString(t,
		`<span id="DERIVED_SSR_FC_SSS_PAGE_KEYDESCR2">A | B | C | D</span>`,
	)
	expected := Course{
		FieldDescription: "A | B | C | D",
		FieldTerm:        "A",
		FieldSession:     "B",
		FieldOrg:         "C",
		FieldLevel:       "D",
	}
	if diff := cmp.Diff(expected, course); diff != "" {
		t.Fatalf("course mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDescriptionFormatError(t *testing.T) {
	_, _, err := NewParser().Parse(context.Background(), strings.NewReader(
		`<span id="DERIVED_SSR_FC_SSS_PAGE_KEYDESCR2">Spring 2017 | New York University</span>`,
	))
	require.ErrorIs(t, err, ErrDescriptionFormat)
}

func TestParseStudentsGroupByIndex(t *testing.T) {
	_, students := parseString(t, `
		<span id="SCC_PRFPRIMNMVW_NAME$0">Doe,Jane</span>
		<span id="DERIVED_SSSMAIL_EMAIL_ADDR$0">jd1@nyu.edu</span>
		<span id="SCC_PRFPRIMNMVW_NAME$1">Roe,Richard</span>
		<span id="PSXLATITEM_XLATLONGNAME$1">Enrolled</span>
		<span id="PROGPLAN$0">UA-Coll of Arts &amp; Sci</span>
	`)
	expected := map[int]Student{
		0: {
			FieldName:    "Doe,Jane",
			FieldEmail:   "jd1@nyu.edu",
			FieldProgram: "UA-Coll of Arts & Sci",
		},
		1: {
			FieldName:   "Roe,Richard",
			FieldStatus: "Enrolled",
		},
	}
	if diff := cmp.Diff(expected, students); diff != "" {
		t.Fatalf("students mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDuplicateIdentifyingAttributes(t *testing.T) {
	// Albert tags often carry the key in both id and name; the second
	// match must be ignored, not treated as a conflict.
	course, _ := parseString(t,
		`<span id="DERIVED_SSR_FC_DESCR254" name="DERIVED_SSR_FC_DESCR254">Calculus I</span>`,
	)
	require.Equal(t, Course{FieldName: "Calculus I"}, course)
}

func TestParseEntityReferences(t *testing.T) {
	course, _ := parseString(t,
		`<span id="MTG_INSTR$0">Currie &amp; Ives&nbsp;&bogusref;!</span>`,
	)
	require.Equal(t, "Currie & Ives !", course[FieldInstructor])
}

func TestParseStudentPhoto(t *testing.T) {
	p := NewParser()
	p.BaseDir = filepath.Join("testroot", "roster_files")
	_, students, err := p.Parse(context.Background(), strings.NewReader(
		`<span id="SCC_PRFPRIMNMVW_NAME$0">Doe,Jane</span>`+
			`<div id="win0divEMPL_PHOTO_EMPLOYEE_PHOTO$0"><img src="p1.jpg"/></div>`,
	))
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "Doe,Jane", students[0][FieldName])
	require.Equal(t, filepath.Join("testroot", "roster_files", "p1.jpg"), students[0][FieldPhoto])
}

func TestParsePhotoKeepsQuerySuffix(t *testing.T) {
	p := NewParser()
	p.BaseDir = "base"
	_, students, err := p.Parse(context.Background(), strings.NewReader(
		`<div id="win0divEMPL_PHOTO_EMPLOYEE_PHOTO$3"><img src="p3.jpg?cache=901"/></div>`,
	))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("base", "p3.jpg?cache=901"), students[3][FieldPhoto])
}

func TestParseMissingPhotoImage(t *testing.T) {
	// a photo marker with no img inside leaves the machine waiting; the
	// record simply has no photo
	_, students, err := NewParser().Parse(context.Background(), strings.NewReader(
		`<span id="SCC_PRFPRIMNMVW_NAME$0">Doe,Jane</span>`+
			`<div id="win0divEMPL_PHOTO_EMPLOYEE_PHOTO$0"><br/></div>`,
	))
	require.NoError(t, err)
	require.Equal(t, Student{FieldName: "Doe,Jane"}, students[0])
}

func TestParseUnterminatedCaptureDiscarded(t *testing.T) {
	course, _ := parseString(t, `<span id="DERIVED_SSR_FC_DESCR254">Calculus`)
	require.Empty(t, course)
}

func TestParseNestedMarkupInsideField(t *testing.T) {
	// nested elements contribute text only; the first end tag commits
	course, _ := parseString(t,
		`<span id="MTG_LOC$0">CIWW <b>109</b> basement</span>`,
	)
	require.Equal(t, "CIWW 109", course[FieldRoom])
}

func TestTransitionDefect(t *testing.T) {
	// a trigger fired against a state outside the table is a defect in
	// the machine, surfaced with full context rather than absorbed
	p := NewParser()
	p.st = state(42)
	err := p.apply(context.Background(), event{kind: evText, text: "x"})

	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, "state(42)", terr.State)
	require.Equal(t, "text", terr.Event)

	// events the token adapter can never interleave are defects too
	p = NewParser()
	p.st = foundCourseKey
	p.field = FieldCode
	err = p.apply(context.Background(), event{kind: evEndTag, tag: "span"})
	require.ErrorAs(t, err, &terr)
	require.Equal(t, "found_course_key", terr.State)
	require.Equal(t, FieldCode, terr.Field)
}

func TestUnpackDescription(t *testing.T) {
	testCases := []struct {
		raw     string
		wantErr bool
	}{
		{"Spring 2017 | Regular Academic Session | New York University | Undergraduate", false},
		{"Spring 2017 | New York University", true},
		{"", true},
		{"A | B | C | D | E", true},
	}
	for _, test := range testCases {
		course := Course{FieldDescription: test.raw}
		err := unpackDescription(course)
		if test.wantErr {
			require.ErrorIs(t, err, ErrDescriptionFormat, test.raw)
			continue
		}
		require.NoError(t, err, test.raw)
		require.Equal(t, "New York University", course[FieldOrg])
	}
}

func TestParseIgnoresUnknownCompositeKeys(t *testing.T) {
	_, students := parseString(t, `
		<span id="UNRELATED_WIDGET$0">junk</span>
		<span id="SCC_PRFPRIMNMVW_NAME$0">Doe,Jane</span>
	`)
	require.Equal(t, Student{FieldName: "Doe,Jane"}, students[0])
}

func TestFieldAccumulatesAcrossTextRuns(t *testing.T) {
	course, _ := parseString(t,
		`<span id="MTG_SCHED$0">MoWe 9:30AM&nbsp;-&nbsp;10:45AM</span>`,
	)
	require.Equal(t, "MoWe 9:30AM - 10:45AM", course[FieldSchedule])
}

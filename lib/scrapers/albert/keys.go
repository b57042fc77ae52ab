package albert

import "regexp"

// Field is a semantic name for a piece of course or student data.
type Field string

const (
	FieldID          Field = "id"
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldProgram     Field = "program"
	FieldLevel       Field = "level"
	FieldStatus      Field = "status"
	FieldCode        Field = "code"
	FieldDescription Field = "description"
	FieldInstructor  Field = "instructor"
	FieldSchedule    Field = "schedule"
	FieldRoom        Field = "room"
	FieldDates       Field = "dates"
	FieldPhoto       Field = "photo"

	// unpacked from FieldDescription, see unpackDescription
	FieldTerm    Field = "term"
	FieldSession Field = "session"
	FieldOrg     Field = "org"
)

// Albert (PeopleSoft) renders every piece of roster data inside an element
// whose id attribute is a fixed, machine-generated key. Course-level keys
// appear once per page; student-level keys are suffixed with "$<n>" where
// <n> correlates all of one student's fields.
//
// The tables are built once and never mutated.
var courseKeys = map[string]Field{
	"DERIVED_SSR_FC_SSR_CLASSNAME_LONG": FieldCode,
	"DERIVED_SSR_FC_SSS_PAGE_KEYDESCR2": FieldDescription,
	"DERIVED_SSR_FC_DESCR254":           FieldName,
	"MTG_INSTR$0":                       FieldInstructor,
	"MTG_SCHED$0":                       FieldSchedule,
	"MTG_LOC$0":                         FieldRoom,
	"MTG_DATE$0":                        FieldDates,
}

var studentKeys = map[string]Field{
	"CLASS_ROSTER_VW_EMPLID":     FieldID,
	"SCC_PRFPRIMNMVW_NAME":       FieldName,
	"DERIVED_SSSMAIL_EMAIL_ADDR": FieldEmail,
	"SCC_PREF_PHN_VW_PHONE":      FieldPhone,
	"PROGPLAN":                   FieldProgram,
	"PROGPLAN1":                  FieldLevel,
	"PSXLATITEM_XLATLONGNAME":    FieldStatus,
}

// photoKey is the id base of the div wrapping a student's photo. The next
// img tag after it carries the photo path in its src attribute.
const photoKey = "win0divEMPL_PHOTO_EMPLOYEE_PHOTO"

// compositeKey matches "<base>$<index>" ids. Course keys containing a
// literal "$" (MTG_*$0) are checked against the course table before this
// pattern is applied, so the two never conflict.
var compositeKey = regexp.MustCompile(`^([^$]*)\$(\d+)$`)

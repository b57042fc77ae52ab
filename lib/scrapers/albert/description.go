package albert

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDescriptionFormat reports a course description that does not carry
// the expected four components. Downstream contact records need the org
// and term pieces, so this aborts the parse instead of committing a
// partial course record.
var ErrDescriptionFormat = errors.New("albert: malformed course description")

const descriptionSeparator = " | "

// unpackDescription splits the committed description field, e.g.
//
//	"Spring 2017 | Regular Academic Session | New York University | Undergraduate"
//
// into term, session, org and level entries on the same record.
func unpackDescription(course Course) error {
	raw := course[FieldDescription]
	parts := strings.Split(raw, descriptionSeparator)
	if len(parts) != 4 {
		return fmt.Errorf("%w: %d part(s) in %q", ErrDescriptionFormat, len(parts), raw)
	}
	course[FieldTerm] = parts[0]
	course[FieldSession] = parts[1]
	course[FieldOrg] = parts[2]
	course[FieldLevel] = parts[3]
	return nil
}

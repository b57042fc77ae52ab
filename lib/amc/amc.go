// Package amc exports student records as a CSV file importable by
// auto-multiple-choice.
package amc

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/leingang/ps2vcard/lib/textutil"
)

var header = []string{
	"Campus ID", // N number
	"surname",
	"name", // given names
	"NetID",
	"email", // NetID@nyu.edu
	"id",    // N number with the letter stripped
}

// Write emits one row per student record from the tabular roster
// extractor. Records are keyed by that roster's raw header strings.
func Write(w io.Writer, students []map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, student := range students {
		email := student["Email Address"]
		netid, _, _ := strings.Cut(email, "@")
		family, given := textutil.SplitRosterName(student["Name"])
		campusID := student["Campus ID"]

		err := cw.Write([]string{
			campusID,
			family,
			given,
			netid,
			email,
			strings.ReplaceAll(campusID, "N", ""),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Package vcard turns extracted roster records into vCards and writes
// them to disk.
package vcard

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	govcard "github.com/emersion/go-vcard"
	"github.com/leingang/ps2vcard/lib/scrapers/albert"
	"github.com/leingang/ps2vcard/lib/textutil"
)

// FromStudent builds one student's contact card. Course fields supply
// the organization and the related-course annotation.
//
// Partial records are passed through, not rejected: a student with no
// name gets empty name components, and a student with no photo (or an
// unreadable one) simply gets no PHOTO entry.
func FromStudent(ctx context.Context, student albert.Student, course albert.Course) govcard.Card {
	card := make(govcard.Card)
	card.SetValue(govcard.FieldVersion, "3.0")

	family, given := textutil.SplitRosterName(student[albert.FieldName])
	card.Set(govcard.FieldName, &govcard.Field{
		Value: strings.Join([]string{family, given, "", "", ""}, ";"),
	})
	card.SetValue(govcard.FieldFormattedName, strings.TrimSpace(given+" "+family))

	if email, ok := student[albert.FieldEmail]; ok {
		card.Add(govcard.FieldEmail, &govcard.Field{
			Value:  email,
			Params: govcard.Params{govcard.ParamType: {"INTERNET"}},
		})
	}
	if phone, ok := student[albert.FieldPhone]; ok {
		card.AddValue(govcard.FieldTelephone, phone)
	}

	card.SetValue(govcard.FieldTitle, "Student")

	program, plan := textutil.UnpackProgramPlan(student[albert.FieldProgram])
	// organizational units, not a flat string, to keep address books
	// from splitting the org on every letter
	card.Set(govcard.FieldOrganization, &govcard.Field{
		Value: course[albert.FieldOrg] + ";" + program,
	})
	if plan != "" {
		card.SetValue("X-NYU-PROGPLAN", program+" - "+plan)
	}

	if photo, ok := student[albert.FieldPhoto]; ok {
		attachPhoto(ctx, card, photo)
	}

	// the address book's "Related Names" fields hold the course
	card.Add("X-ABLABEL", &govcard.Field{Group: "item1", Value: "course"})
	card.Add("X-ABRELATEDNAMES", &govcard.Field{
		Group: "item1",
		Value: course[albert.FieldCode] + ", " + course[albert.FieldTerm],
	})

	return card
}

func attachPhoto(ctx context.Context, card govcard.Card, ref string) {
	data, err := LoadPhoto(ctx, ref)
	if err != nil {
		slog.WarnContext(ctx, "skipping unreadable photo", "ref", ref, "err", err)
		return
	}
	card.Set(govcard.FieldPhoto, &govcard.Field{
		Value: base64.StdEncoding.EncodeToString(data),
		Params: govcard.Params{
			"ENCODING":        {"b"},
			govcard.ParamType: {"JPEG"},
		},
	})
}

// FileName derives a .vcf file name from the card's formatted name.
// Not guaranteed unique.
func FileName(card govcard.Card) string {
	return textutil.FileStem(card.Value(govcard.FieldFormattedName)) + ".vcf"
}

// Writer saves cards under a single directory, created on first write.
type Writer struct {
	Dir string
}

func NewWriter(dir string) Writer {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return Writer{Dir: dir}
}

// Write serializes the card to <dir>/<FileName>. Returns the path
// written.
func (w Writer) Write(ctx context.Context, card govcard.Card) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(w.Dir, FileName(card))
	slog.InfoContext(ctx, "saving card", "path", path)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := govcard.NewEncoder(f).Encode(card); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

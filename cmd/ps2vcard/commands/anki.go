package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leingang/ps2vcard/lib/scrapers/albert"
	"github.com/leingang/ps2vcard/lib/textutil"
	"github.com/leingang/ps2vcard/lib/vcard"
	"github.com/spf13/cobra"
)

var (
	ankiFlat    bool
	ankiSaveDir string
)

func init() {
	ankiCmd.Flags().BoolVar(&ankiFlat, "flat", false,
		"Treat FILE as the roster page itself rather than a frameset wrapping it.")
	ankiCmd.Flags().StringVar(&ankiSaveDir, "save-dir", "",
		"Save images to this directory (default: current directory).")
	rootCmd.AddCommand(ankiCmd)
}

// Exports one image file per student, named after the student, for
// importing into Anki via its Media Import add-on to make name-and-face
// flashcards.
var ankiCmd = &cobra.Command{
	Use:   "anki [FILE]",
	Short: "Export student photos named by student, for Anki flashcards.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := defaultRosterFile
		if len(args) > 0 {
			path = args[0]
		}

		_, students, err := parseRoster(ctx, path, ankiFlat)
		if err != nil {
			return err
		}

		dir := ankiSaveDir
		if dir == "" {
			dir = config.SaveDir
		}
		if dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}

		for _, index := range sortedIndices(students) {
			student := students[index]
			family, given := textutil.SplitRosterName(student[albert.FieldName])
			fullName := strings.TrimSpace(given + " " + family)

			ref, ok := student[albert.FieldPhoto]
			if !ok {
				slog.WarnContext(ctx, "no photo for student, skipping", "name", fullName, "index", index)
				continue
			}
			data, err := vcard.LoadPhoto(ctx, ref)
			if err != nil {
				slog.WarnContext(ctx, "unreadable photo, skipping", "name", fullName, "ref", ref, "err", err)
				continue
			}

			out := filepath.Join(dir, fmt.Sprintf("%s.jpg", fullName))
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			slog.InfoContext(ctx, "saved photo", "path", out)
		}
		return nil
	},
}

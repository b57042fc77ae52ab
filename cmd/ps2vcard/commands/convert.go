package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leingang/ps2vcard/lib/scrapers/albert"
	"github.com/leingang/ps2vcard/lib/vcard"
	"github.com/spf13/cobra"
)

// The browser "Webpage, complete" save of an Albert class roster yields
// this file plus an accompanying _files directory with the child frame
// and the student photos.
const defaultRosterFile = "Access Class Rosters.html"

var (
	convertFlat    bool
	convertSave    bool
	convertPrint   bool
	convertSaveDir string
)

func init() {
	convertCmd.Flags().BoolVar(&convertFlat, "flat", false,
		"Treat FILE as the roster page itself rather than a frameset wrapping it.")
	convertCmd.Flags().BoolVar(&convertSave, "save", false, "Save vCards.")
	convertCmd.Flags().StringVar(&convertSaveDir, "save-dir", "",
		"Save vCards to this directory (default: current directory).")
	convertCmd.Flags().BoolVar(&convertPrint, "print", true,
		"Print the extracted roster as a table.")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [FILE]",
	Short: "Convert a saved class-roster page into one vCard per student.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := defaultRosterFile
		if len(args) > 0 {
			path = args[0]
		}

		course, students, err := parseRoster(ctx, path, convertFlat)
		if err != nil {
			return err
		}

		if convertPrint {
			printRoster(course, students)
		}

		if !convertSave {
			return nil
		}
		dir := convertSaveDir
		if dir == "" {
			dir = config.SaveDir
		}
		writer := vcard.NewWriter(dir)
		for _, index := range sortedIndices(students) {
			card := vcard.FromStudent(ctx, students[index], course)
			if _, err := writer.Write(ctx, card); err != nil {
				return err
			}
		}
		return nil
	},
}

func parseRoster(ctx context.Context, path string, flat bool) (albert.Course, map[int]albert.Student, error) {
	if flat {
		return albert.NewParser().ParseFile(ctx, path)
	}
	frameset := albert.FramesetParser{TargetFrame: config.TargetFrame}
	return frameset.ParseFile(ctx, path)
}

func sortedIndices(students map[int]albert.Student) []int {
	indices := make([]int, 0, len(students))
	for index := range students {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

func printRoster(course albert.Course, students map[int]albert.Student) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf(
		"%s (%s)",
		course[albert.FieldCode],
		course[albert.FieldTerm],
	))
	t.AppendHeader(table.Row{"#", "Name", "Email", "Program", "Status", "Photo"})
	for _, index := range sortedIndices(students) {
		s := students[index]
		t.AppendRow(table.Row{
			index,
			s[albert.FieldName],
			s[albert.FieldEmail],
			s[albert.FieldProgram],
			s[albert.FieldStatus],
			s[albert.FieldPhoto],
		})
	}
	t.Render()
}

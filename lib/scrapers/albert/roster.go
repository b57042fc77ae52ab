package albert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
)

// Course holds the section-level fields of one roster page.
type Course map[Field]string

// Student holds one student's fields. Any field may be absent, including
// FieldPhoto; consumers must tolerate partial records.
type Student map[Field]string

type state int

const (
	seekingKey state = iota
	foundCourseKey
	foundStudentKey
	seekingCourseData
	seekingStudentData
	seekingStudentImage
)

func (s state) String() string {
	switch s {
	case seekingKey:
		return "seeking_key"
	case foundCourseKey:
		return "found_course_key"
	case foundStudentKey:
		return "found_student_key"
	case seekingCourseData:
		return "seeking_course_data"
	case seekingStudentData:
		return "seeking_student_data"
	case seekingStudentImage:
		return "seeking_student_image"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type eventKind int

const (
	// one attribute of a start tag, delivered before evAttrsDone
	evStartTagAttr eventKind = iota
	// all attributes of the current start tag have been delivered
	evAttrsDone
	evText
	evEntityRef
	evEndTag
)

func (k eventKind) String() string {
	switch k {
	case evStartTagAttr:
		return "start_tag_attr"
	case evAttrsDone:
		return "attrs_done"
	case evText:
		return "text"
	case evEntityRef:
		return "entity_ref"
	case evEndTag:
		return "end_tag"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// event is the scratch value threaded through the transition function.
// It lives only for the duration of one apply call.
type event struct {
	kind eventKind
	tag  string
	attr html.Attribute
	// text content for evText, reference name for evEntityRef
	text string
}

type dest int

const (
	destNone dest = iota
	destCourse
	destStudent
)

// TransitionError reports an event for which the machine's current state
// defines no transition at all. This is a defect in the transition table,
// never a property of the input document, so it aborts the parse.
type TransitionError struct {
	State string
	Event string
	Tag   string
	Attr  string
	Field Field
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf(
		"albert: no transition for %s in state %s (tag=%q attr=%q field=%q)",
		e.Event, e.State, e.Tag, e.Attr, e.Field,
	)
}

// Parser extracts one course record and a set of per-student records from
// an Albert class-roster page. Each instance parses a single document;
// construct a fresh one per parse.
type Parser struct {
	// BaseDir is prepended to relative photo paths. ParseFile sets it
	// from the document's own directory.
	BaseDir string

	course   Course
	students map[int]Student

	st    state
	field Field
	index int
	dst   dest
	buf   strings.Builder
}

func NewParser() *Parser {
	return &Parser{
		course:   Course{},
		students: map[int]Student{},
		st:       seekingKey,
	}
}

// ParseFile parses the roster page at path. Relative photo references
// resolve against the file's directory.
func (p *Parser) ParseFile(ctx context.Context, path string) (Course, map[int]Student, error) {
	p.BaseDir = filepath.Dir(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return p.Parse(ctx, f)
}

// Parse consumes the document and returns the course record and the
// student records keyed by roster index. A document with no recognized
// keys yields empty (non-nil) results.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (Course, map[int]Student, error) {
	ctx, span := tracer.Start(ctx, "albert:Parse")
	defer span.End()

	err := p.consume(ctx, html.NewTokenizer(r))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, nil, err
	}
	// anything still buffered at end of input was an unterminated
	// capture and is discarded
	return p.course, p.students, nil
}

// apply is the transition function: a closed switch over
// (state, event kind) with guards. States and event kinds not listed for
// each other are defects, not input errors.
func (p *Parser) apply(ctx context.Context, ev event) error {
	switch p.st {
	case seekingKey:
		switch ev.kind {
		case evStartTagAttr:
			p.matchKey(ctx, ev)
			return nil
		case evAttrsDone, evText, evEntityRef, evEndTag:
			// page chrome between recognized fields
			return nil
		}

	case foundCourseKey:
		switch ev.kind {
		case evStartTagAttr:
			// a second identifying attribute on the same tag (Albert
			// emits both id and name); the first match already won
			return nil
		case evAttrsDone:
			p.st = seekingCourseData
			return nil
		}

	case foundStudentKey:
		switch ev.kind {
		case evStartTagAttr:
			return nil
		case evAttrsDone:
			p.st = seekingStudentData
			return nil
		}

	case seekingCourseData, seekingStudentData:
		switch ev.kind {
		case evText:
			p.buf.WriteString(ev.text)
			return nil
		case evEntityRef:
			p.bufferEntity(ctx, ev.text)
			return nil
		case evEndTag:
			// the first end tag commits, even one closing an element
			// nested inside the field
			return p.commit(ctx)
		case evStartTagAttr, evAttrsDone:
			// markup nested inside a captured field contributes only
			// its text
			return nil
		}

	case seekingStudentImage:
		switch ev.kind {
		case evStartTagAttr:
			if ev.tag == "img" && ev.attr.Key == "src" {
				p.commitPhoto(ctx, ev.attr.Val)
			}
			return nil
		case evAttrsDone, evText, evEntityRef, evEndTag:
			// still waiting for the img tag; if the document never
			// produces one this student simply has no photo
			return nil
		}
	}

	// Only a corrupted state value, or an event the token adapter can
	// never produce in the current state, lands here.
	return p.defect(ctx, ev)
}

// matchKey classifies one attribute of a start tag while idle. Course
// keys match the attribute value exactly; student keys and the photo
// marker match the base of a "<base>$<index>" composite. Anything else
// is ignored.
func (p *Parser) matchKey(ctx context.Context, ev event) {
	if ev.attr.Key != "id" {
		return
	}
	id := ev.attr.Val

	if field, ok := courseKeys[id]; ok {
		slog.DebugContext(ctx, "matched course key", "id", id, "field", field)
		p.field = field
		p.dst = destCourse
		p.st = foundCourseKey
		return
	}

	m := compositeKey.FindStringSubmatch(id)
	if m == nil {
		return
	}
	base := m[1]
	index, err := strconv.Atoi(m[2])
	if err != nil {
		// \d+ guarantees digits; only overflow can land here
		slog.WarnContext(ctx, "unusable key index", "id", id, "err", err)
		return
	}

	if field, ok := studentKeys[base]; ok {
		slog.DebugContext(ctx, "matched student key", "id", id, "field", field, "index", index)
		p.field = field
		p.index = index
		p.dst = destStudent
		p.st = foundStudentKey
		return
	}
	if base == photoKey {
		slog.DebugContext(ctx, "matched photo marker", "index", index)
		p.index = index
		p.st = seekingStudentImage
		return
	}
	slog.DebugContext(ctx, "ignoring key", "id", id)
}

// bufferEntity appends the character(s) a named reference stands for.
// Unknown names contribute nothing; they never abort the parse.
func (p *Parser) bufferEntity(ctx context.Context, name string) {
	ref := "&" + name + ";"
	decoded := html.UnescapeString(ref)
	if decoded == ref {
		slog.DebugContext(ctx, "skipping unknown entity reference", "name", name)
		return
	}
	p.buf.WriteString(decoded)
}

// commit moves the buffered text into the current record and returns the
// machine to the idle state. Buffers reset unconditionally.
func (p *Parser) commit(ctx context.Context) error {
	var err error
	switch p.dst {
	case destCourse:
		p.course[p.field] = p.buf.String()
		if p.field == FieldDescription {
			err = unpackDescription(p.course)
		}
	case destStudent:
		p.student(p.index)[p.field] = p.buf.String()
	default:
		err = fmt.Errorf("albert: commit with no destination (field=%q)", p.field)
	}

	p.field = ""
	p.index = 0
	p.dst = destNone
	p.buf.Reset()
	p.st = seekingKey
	return err
}

// commitPhoto records the resolved photo path for the current student.
// The raw src may carry a query-string suffix; it is preserved here and
// stripped by whoever opens the file.
func (p *Parser) commitPhoto(ctx context.Context, src string) {
	path := filepath.Join(p.BaseDir, src)
	slog.DebugContext(ctx, "resolved student photo", "index", p.index, "path", path)
	p.student(p.index)[FieldPhoto] = path
	p.index = 0
	p.st = seekingKey
}

// student returns the record for index, creating it on first use.
func (p *Parser) student(index int) Student {
	s, ok := p.students[index]
	if !ok {
		s = Student{}
		p.students[index] = s
	}
	return s
}

func (p *Parser) defect(ctx context.Context, ev event) error {
	err := &TransitionError{
		State: p.st.String(),
		Event: ev.kind.String(),
		Tag:   ev.tag,
		Attr:  ev.attr.Key,
		Field: p.field,
	}
	slog.ErrorContext(ctx, "roster machine defect",
		"state", err.State,
		"event", err.Event,
		"tag", err.Tag,
		"attr", err.Attr,
		"field", err.Field,
	)
	return err
}

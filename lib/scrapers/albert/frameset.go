package albert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
)

// ErrNoContentFrame reports a frameset document with no frame named
// after the content frame. An absent frame means the page was saved
// wrong, never that the course has zero students.
var ErrNoContentFrame = errors.New("albert: content frame not found")

// DefaultTargetFrame is the name Albert gives the frame holding the
// roster itself.
const DefaultTargetFrame = "TargetContent"

// FramesetParser locates the content frame of a saved frameset page and
// hands the referenced child document to a fresh roster Parser. Photo
// paths resolve against the child document's directory.
type FramesetParser struct {
	// TargetFrame overrides the frame name to look for.
	// Empty means DefaultTargetFrame.
	TargetFrame string
}

// ParseFile parses the frameset at path and then the roster document the
// content frame points at.
func (p FramesetParser) ParseFile(ctx context.Context, path string) (Course, map[int]Student, error) {
	ctx, span := tracer.Start(ctx, "albert:ParseFrameset")
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	src, err := p.findContentFrame(ctx, f)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "content frame lookup failed")
		return nil, nil, fmt.Errorf("%w in %s", err, path)
	}

	child := filepath.Join(filepath.Dir(path), src)
	slog.DebugContext(ctx, "delegating to content frame", "frameset", path, "roster", child)
	return NewParser().ParseFile(ctx, child)
}

// findContentFrame scans start tags only, looking for the first frame or
// iframe whose name attribute matches the target. Later matches are
// ignored.
func (p FramesetParser) findContentFrame(ctx context.Context, r io.Reader) (string, error) {
	target := p.TargetFrame
	if target == "" {
		target = DefaultTargetFrame
	}

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			if err == io.EOF {
				return "", ErrNoContentFrame
			}
			return "", err
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if t.Data != "frame" && t.Data != "iframe" {
				continue
			}
			var name, src string
			for _, a := range t.Attr {
				switch a.Key {
				case "name":
					name = a.Val
				case "src":
					src = a.Val
				}
			}
			if name != target {
				continue
			}
			if src == "" {
				return "", fmt.Errorf("%w: frame %q has no src", ErrNoContentFrame, target)
			}
			return src, nil
		}
	}
}

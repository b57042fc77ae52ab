package albert

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// consume drives the machine from the tokenizer's event stream: for every
// start tag, one event per attribute followed by an attributes-finished
// event; raw text runs are split into text and entity-reference events.
// Comments and doctypes carry no roster data and are dropped.
func (p *Parser) consume(ctx context.Context, z *html.Tokenizer) error {
	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			if err == io.EOF {
				return nil
			}
			return err

		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			for _, a := range t.Attr {
				err := p.apply(ctx, event{kind: evStartTagAttr, tag: t.Data, attr: a})
				if err != nil {
					return err
				}
			}
			err := p.apply(ctx, event{kind: evAttrsDone, tag: t.Data})
			if err != nil {
				return err
			}

		case html.TextToken:
			// Raw, not Token: the tokenizer would otherwise resolve
			// character references itself, and the machine wants them
			// as distinct events.
			err := p.feedText(ctx, string(z.Raw()))
			if err != nil {
				return err
			}

		case html.EndTagToken:
			t := z.Token()
			err := p.apply(ctx, event{kind: evEndTag, tag: t.Data})
			if err != nil {
				return err
			}
		}
	}
}

// charRef matches both named references (&amp;) and numeric ones
// (&#38;, &#x26;). Group 1 keeps the bare name.
var charRef = regexp.MustCompile(`&(#?\w+);`)

// feedText splits one raw text run into plain-text and entity-reference
// events. Numeric character references are dropped: the source system
// emits them only inside chrome the machine ignores anyway.
func (p *Parser) feedText(ctx context.Context, raw string) error {
	rest := raw
	for {
		loc := charRef.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if head := rest[:loc[0]]; head != "" {
			err := p.apply(ctx, event{kind: evText, text: head})
			if err != nil {
				return err
			}
		}
		name := rest[loc[2]:loc[3]]
		if strings.HasPrefix(name, "#") {
			slog.DebugContext(ctx, "dropping numeric character reference", "ref", name)
		} else {
			err := p.apply(ctx, event{kind: evEntityRef, text: name})
			if err != nil {
				return err
			}
		}
		rest = rest[loc[1]:]
	}
	if rest == "" {
		return nil
	}
	return p.apply(ctx, event{kind: evText, text: rest})
}

// Package highlight implements the marker grammar the editorial pass uses to
// record its edits inline:
//
//	[[ORIGINAL: pre-edit phrase]]replacement text
//
// The marker wraps the phrase as it stood before the edit; the replacement
// runs until the next marker or end of document. Stripping every marked span
// yields the clean publishable text, and the marked spans alone form the
// audit trail of edits. This grammar is the wire format between the
// editorial pass and the delivery layer.
package highlight

import (
	"fmt"
	"strings"
)

const (
	MarkerStart = "[[ORIGINAL: "
	MarkerEnd   = "]]"
)

// Segment is one token of an editorial document: either final text or a
// marker-wrapped pre-edit phrase.
type Segment struct {
	Original bool
	Text     string
}

// Segments tokenizes an editorial document. It fails on an unclosed marker;
// markers do not nest.
func Segments(s string) ([]Segment, error) {
	var segs []Segment
	offset := 0
	for {
		i := strings.Index(s, MarkerStart)
		if i < 0 {
			if s != "" {
				segs = append(segs, Segment{Text: s})
			}
			return segs, nil
		}
		if i > 0 {
			segs = append(segs, Segment{Text: s[:i]})
		}
		rest := s[i+len(MarkerStart):]
		j := strings.Index(rest, MarkerEnd)
		if j < 0 {
			return nil, fmt.Errorf("unclosed highlight marker at offset %d", offset+i)
		}
		segs = append(segs, Segment{Original: true, Text: rest[:j]})
		offset += i + len(MarkerStart) + j + len(MarkerEnd)
		s = rest[j+len(MarkerEnd):]
	}
}

// Validate reports whether the document parses under the marker grammar.
func Validate(s string) error {
	_, err := Segments(s)
	return err
}

// Strip removes every marker-wrapped pre-edit span, leaving the clean
// publishable text.
func Strip(s string) (string, error) {
	segs, err := Segments(s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, seg := range segs {
		if !seg.Original {
			b.WriteString(seg.Text)
		}
	}
	return b.String(), nil
}

// Originals returns the pre-edit phrases, in document order.
func Originals(s string) ([]string, error) {
	segs, err := Segments(s)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, seg := range segs {
		if seg.Original {
			out = append(out, seg.Text)
		}
	}
	return out, nil
}

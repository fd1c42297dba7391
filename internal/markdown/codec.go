// Package markdown implements the tagged-segment document format used to
// persist agents, premises and conversation logs. A document is a sequence
// of blocks, each a self-closing `<aistorm key="value" ... />` tag followed
// by free text running until the next tag or the end of the document.
//
// Property values are not escaped: a value containing a literal quote
// character is unsupported. This is a deliberate wire-format limitation,
// not an oversight; fixing it would change the format on disk.
package markdown

import (
	"fmt"
	"strings"

	"github.com/gosuda/brainstorm/internal/domain"
)

const tagOpen = "<aistorm"

// Encode serializes segments to document text. Properties are emitted in
// their stored iteration order so an unmodified round trip is byte-stable.
// An empty segment list encodes to empty text.
func Encode(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(tagOpen)
		sb.WriteByte(' ')
		for k, v := range seg.Props.All() {
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(v)
			sb.WriteString(`" `)
		}
		sb.WriteString("/>\n\n")
		if seg.Content != "" {
			sb.WriteString(seg.Content)
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimRight(sb.String(), " \t\n")
}

// Decode parses document text into segments. Text before the first tag is
// ignored; the free text following each tag is trimmed of surrounding
// whitespace. Empty input decodes to an empty list.
func Decode(doc string) ([]Segment, error) {
	var segments []Segment

	pos := strings.Index(doc, tagOpen)
	for pos >= 0 {
		rest := doc[pos+len(tagOpen):]

		props, bodyStart, err := parseTag(rest)
		if err != nil {
			return nil, err
		}
		rest = rest[bodyStart:]

		next := strings.Index(rest, tagOpen)
		var content string
		if next < 0 {
			content = rest
			pos = -1
		} else {
			content = rest[:next]
			// Re-anchor on the absolute document offset of the next tag.
			pos = len(doc) - len(rest) + next
		}

		segments = append(segments, NewSegment(props, strings.TrimSpace(content)))
	}

	return segments, nil
}

// parseTag scans `key="value"` pairs after a tag opener up to the closing
// "/>". It returns the parsed properties and the offset just past the
// closing marker.
func parseTag(s string) (*Properties, int, error) {
	props := NewProperties()
	i := 0

	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return nil, 0, fmt.Errorf("markdown: unterminated tag: %w", domain.ErrBadFormat)
		}
		if strings.HasPrefix(s[i:], "/>") {
			return props, i + 2, nil
		}

		keyStart := i
		for i < len(s) && isWordByte(s[i]) {
			i++
		}
		if i == keyStart || i >= len(s) || s[i] != '=' {
			return nil, 0, fmt.Errorf("markdown: malformed tag attribute near %q: %w", truncate(s[keyStart:], 20), domain.ErrBadFormat)
		}
		key := s[keyStart:i]
		i++ // consume '='

		if i >= len(s) || s[i] != '"' {
			return nil, 0, fmt.Errorf("markdown: attribute %q missing quoted value: %w", key, domain.ErrBadFormat)
		}
		i++ // consume opening quote

		valEnd := strings.IndexByte(s[i:], '"')
		if valEnd < 0 {
			return nil, 0, fmt.Errorf("markdown: attribute %q has unterminated value: %w", key, domain.ErrBadFormat)
		}
		props.Add(key, s[i:i+valEnd])
		i += valEnd + 1
	}
}

// FindSegment returns the first segment with the given type property, or
// false when none matches.
func FindSegment(segments []Segment, typeValue string) (Segment, bool) {
	for _, seg := range segments {
		if seg.Type() == typeValue {
			return seg, true
		}
	}
	return Segment{}, false
}

// FilterSegments returns all segments with the given type property, in
// document order.
func FilterSegments(segments []Segment, typeValue string) []Segment {
	var out []Segment
	for _, seg := range segments {
		if seg.Type() == typeValue {
			out = append(out, seg)
		}
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b == '-'
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

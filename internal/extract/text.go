package extract

import (
	"encoding/json"
	"strings"
)

// nameTrimSet is stripped from the start of an item line to find its name.
const nameTrimSet = "0123456789.-• "

// pending is the record being built while scanning lines.
type pending struct {
	name string
	desc strings.Builder
}

func (p *pending) exercise() Exercise {
	return Exercise{
		Name:        p.name,
		Description: p.desc.String(),
		Series:      DefaultSeries,
		Reps:        DefaultReps,
	}
}

// bulletedText reads one record per numbered or bulleted line. Following
// non-item lines extend the description of the open record. A blank line
// closes the open record, and lines outside any record are dropped.
func bulletedText(in input) ([]json.RawMessage, bool) {
	var out []json.RawMessage
	var current *pending

	for _, line := range strings.Split(in.text, "\n") {
		line = strings.TrimSpace(line)

		// Blank line closes the open record
		if line == "" {
			if current != nil {
				out = append(out, mustEncode(current.exercise()))
				current = nil
			}
			continue
		}

		if startsItem(line) {
			if current != nil {
				out = append(out, mustEncode(current.exercise()))
			}
			current = &pending{name: itemName(line)}
			current.desc.WriteString(line)
			continue
		}

		// Continuation line
		if current != nil {
			current.desc.WriteByte(' ')
			current.desc.WriteString(line)
		}
	}

	// Flush remaining
	if current != nil {
		out = append(out, mustEncode(current.exercise()))
	}

	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// startsItem reports whether a trimmed, non-empty line opens a new record:
// it begins with an ASCII digit, '-' or '•'.
func startsItem(line string) bool {
	c := line[0]
	return (c >= '0' && c <= '9') || c == '-' || strings.HasPrefix(line, "•")
}

// itemName strips list markers and keeps the text before the first ':' and
// then before the first ','.
func itemName(line string) string {
	name := strings.TrimLeft(line, nameTrimSet)
	name, _, _ = strings.Cut(name, ":")
	name, _, _ = strings.Cut(name, ",")
	return name
}

package extract

import (
	"bytes"
	"encoding/json"
	"strings"
)

// document is the JSON value found between the first '{' and the last '}'
// of a completion.
type document struct {
	raw json.RawMessage
	obj map[string]json.RawMessage // nil unless raw is an object
}

// embeddedJSON slices text from the first '{' to the last '}' and parses it.
// It returns nil when there is no such slice or the slice is not valid JSON.
func embeddedJSON(text string) *document {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil
	}
	doc := &document{raw: raw}
	if kind(raw) == '{' {
		if err := json.Unmarshal(raw, &doc.obj); err != nil {
			return nil
		}
	}
	return doc
}

func jsonList(in input) ([]json.RawMessage, bool) {
	if in.doc == nil || kind(in.doc.raw) != '[' {
		return nil, false
	}
	return items(in.doc.raw)
}

func jsonExercises(in input) ([]json.RawMessage, bool) {
	if in.doc == nil || in.doc.obj == nil {
		return nil, false
	}
	v, ok := in.doc.obj["exercises"]
	if !ok {
		return nil, false
	}
	return items(v)
}

// jsonRoutines only applies when the object has no "exercises" key.
func jsonRoutines(in input) ([]json.RawMessage, bool) {
	if in.doc == nil || in.doc.obj == nil {
		return nil, false
	}
	if _, ok := in.doc.obj["exercises"]; ok {
		return nil, false
	}
	v, ok := in.doc.obj["routines"]
	if !ok {
		return nil, false
	}
	return items(v)
}

// jsonObject wraps an object that carries neither list key.
func jsonObject(in input) ([]json.RawMessage, bool) {
	if in.doc == nil || in.doc.obj == nil {
		return nil, false
	}
	for _, key := range []string{"exercises", "routines"} {
		if _, ok := in.doc.obj[key]; ok {
			return nil, false
		}
	}
	return []json.RawMessage{in.doc.raw}, true
}

// items turns a selected JSON value into a record list. Arrays contribute
// their elements, null and empty arrays do not match, and any other value
// becomes a single record.
func items(v json.RawMessage) ([]json.RawMessage, bool) {
	switch kind(v) {
	case 0, 'n':
		return nil, false
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(v, &elems); err != nil || len(elems) == 0 {
			return nil, false
		}
		return elems, true
	default:
		return []json.RawMessage{v}, true
	}
}

// kind returns the first significant byte of a JSON value, 0 if empty.
func kind(v json.RawMessage) byte {
	v = bytes.TrimLeft(v, " \t\r\n")
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

// Package extract turns free-form AI completions into a list of exercise
// records.
//
// Extraction never fails. The input is offered to an ordered chain of
// strategies and the first one that matches wins:
//
//	json_list       embedded JSON array, elements used as-is
//	json_exercises  embedded JSON object, value of its "exercises" key
//	json_routines   embedded JSON object, value of its "routines" key
//	json_object     any other embedded JSON object, wrapped in a list
//	text            numbered or bulleted lines, one record per item
//	raw             the whole text as a single record
//
// A panic anywhere in the chain is recovered and produces a single record
// holding the raw text.
package extract

import (
	"encoding/json"
)

// Source names the strategy that produced a Result.
type Source string

const (
	SourceJSONList      Source = "json_list"
	SourceJSONExercises Source = "json_exercises"
	SourceJSONRoutines  Source = "json_routines"
	SourceJSONObject    Source = "json_object"
	SourceText          Source = "text"
	SourceRaw           Source = "raw"
	SourceRecovered     Source = "recovered"
)

// Defaults applied to records parsed from text lines.
const (
	DefaultSeries = 3
	DefaultReps   = 10
)

const (
	rawName       = "Rutina personalizada"
	recoveredName = "Rutina generada"
)

// Exercise is the record shape produced by the text and fallback strategies.
// Records taken from embedded JSON keep whatever shape the model returned.
type Exercise struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Series         int    `json:"series,omitempty"`
	Reps           int    `json:"reps,omitempty"`
	IsTextResponse bool   `json:"is_text_response,omitempty"`
}

// Result is the outcome of Extract. Exercises is never empty.
type Result struct {
	Exercises []json.RawMessage `json:"exercises"`
	Source    Source            `json:"source"`
}

// JSON returns the exercises encoded as a JSON array.
func (r Result) JSON() json.RawMessage {
	b, err := json.Marshal(r.Exercises)
	if err != nil {
		return json.RawMessage("[]")
	}
	return b
}

// FromText reports whether the result came from heuristics over plain text
// rather than from structured JSON in the completion.
func (r Result) FromText() bool {
	switch r.Source {
	case SourceText, SourceRaw, SourceRecovered:
		return true
	}
	return false
}

// input is what every strategy sees: the original text and, when the text
// embeds a parseable JSON value, that value.
type input struct {
	text string
	doc  *document
}

type strategy struct {
	source Source
	match  func(in input) ([]json.RawMessage, bool)
}

// chain is the precedence order of strategies.
var chain = []strategy{
	{SourceJSONList, jsonList},
	{SourceJSONExercises, jsonExercises},
	{SourceJSONRoutines, jsonRoutines},
	{SourceJSONObject, jsonObject},
	{SourceText, bulletedText},
	{SourceRaw, rawText},
}

// Extract parses an AI completion into exercise records. It is safe for
// concurrent use and deterministic for a given input.
func Extract(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = single(text, recoveredName, SourceRecovered)
		}
	}()

	in := input{text: text, doc: embeddedJSON(text)}
	for _, s := range chain {
		if items, ok := s.match(in); ok {
			return Result{Exercises: items, Source: s.source}
		}
	}
	return single(text, rawName, SourceRaw)
}

func rawText(in input) ([]json.RawMessage, bool) {
	return single(in.text, rawName, SourceRaw).Exercises, true
}

func single(text, name string, source Source) Result {
	return Result{
		Exercises: []json.RawMessage{mustEncode(Exercise{
			Name:           name,
			Description:    text,
			IsTextResponse: true,
		})},
		Source: source,
	}
}

// mustEncode panics on failure; the panic is recovered by Extract.
func mustEncode(e Exercise) json.RawMessage {
	b, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return b
}

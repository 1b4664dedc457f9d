package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Outcome is the result of one pipeline run. ParseError is empty when the
// model output produced the itinerary and describes the reason otherwise.
type Outcome struct {
	Itinerary   Itinerary   `json:"itinerary"`
	Fallback    bool        `json:"fallback"`
	ParseError  string      `json:"parseError,omitempty"`
	RepairStage RepairStage `json:"repairStage,omitempty"`
}

// Pipeline runs extraction, repair, normalization, completion and window
// inference on a raw completion. The zero value uses UTC and time.Now.
type Pipeline struct {
	Location *time.Location
	Now      func() time.Time
}

var errNoCandidates = errors.New("no JSON candidate found in model output")

// Run never fails: when the completion cannot be parsed, or parses into an
// itinerary without a single activity, the fallback generator is used with
// the original prompt.
func (p Pipeline) Run(raw, prompt string) Outcome {
	obj, stage, err := parseCompletion(raw)
	if err != nil {
		return p.FromPrompt(prompt, fmt.Sprintf("failed to parse model output: %v", err))
	}

	it := Normalize(obj, p.location())
	if !it.HasActivities() {
		return p.FromPrompt(prompt, "model output contained no activities")
	}

	p.finish(&it)
	return Outcome{Itinerary: it, RepairStage: stage}
}

// FromPrompt returns the fallback itinerary for prompt with reason as the
// parse error.
func (p Pipeline) FromPrompt(prompt, reason string) Outcome {
	return Outcome{
		Itinerary:  Fallback(prompt, p.now(), p.location()),
		Fallback:   true,
		ParseError: reason,
	}
}

// Renormalize feeds an itinerary back through normalization, completion and
// window inference. Applied to pipeline output it returns an equal value.
func (p Pipeline) Renormalize(it Itinerary) (Itinerary, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return Itinerary{}, fmt.Errorf("itinerary.Renormalize: %w", err)
	}
	obj, err := decodeObject(string(b))
	if err != nil {
		return Itinerary{}, fmt.Errorf("itinerary.Renormalize: %w", err)
	}

	out := Normalize(obj, p.location())
	p.finish(&out)
	return out, nil
}

func (p Pipeline) finish(it *Itinerary) {
	loc := p.location()
	for i := range it.Days {
		it.Days[i] = Complete(it.Days[i], it.Destination, loc)
	}
	InferWindow(it, loc)
}

// parseCompletion repairs the extracted candidates in order and returns the
// first object. With no candidates the raw text itself is tried.
func parseCompletion(raw string) (Object, RepairStage, error) {
	candidates := ExtractCandidates(raw)
	if len(candidates) == 0 {
		candidates = []string{raw}
	}

	var lastErr error = errNoCandidates
	for _, c := range candidates {
		obj, stage, err := Repair(c)
		if err == nil {
			return obj, stage, nil
		}
		lastErr = err
	}
	return nil, "", lastErr
}

func (p Pipeline) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

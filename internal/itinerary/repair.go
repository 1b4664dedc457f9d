package itinerary

import (
	"fmt"
	"regexp"

	"github.com/kaptinlin/jsonrepair"
)

type RepairStage string

const (
	StageStrict    RepairStage = "strict"
	StageHeuristic RepairStage = "heuristic"
	StageGeneral   RepairStage = "jsonrepair"
)

// RepairError is returned when no repair stage produced a JSON object. Err is
// the parse error of the last stage attempted.
type RepairError struct {
	Stage RepairStage
	Err   error
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("itinerary: repair failed after %s stage: %v", e.Stage, e.Err)
}

func (e *RepairError) Unwrap() error { return e.Err }

var (
	orphanEmptyAfterComma = regexp.MustCompile(`,\s*""\s*(?::\s*""\s*)?([,}\]])`)
	orphanEmptyAfterOpen  = regexp.MustCompile(`([{\[])\s*""\s*(?::\s*""\s*)?,`)
	concatenatedStrings   = regexp.MustCompile(`"\s*\+\s*"`)
	splitKeySeparator     = regexp.MustCompile(`"\s*,\s*"\s+"`)
	trailingComma         = regexp.MustCompile(`,\s*([}\]])`)
)

// StripOrphanEmptyStrings removes stray "" tokens (and "":"" pairs with an
// empty key) left between commas. Pairs with a real key and an empty value
// are kept.
func StripOrphanEmptyStrings(s string) string {
	for {
		next := orphanEmptyAfterComma.ReplaceAllString(s, "${1}")
		next = orphanEmptyAfterOpen.ReplaceAllString(next, "${1}")
		if next == s {
			return s
		}
		s = next
	}
}

// JoinConcatenatedStrings merges "a" + "b" into "ab".
func JoinConcatenatedStrings(s string) string {
	return concatenatedStrings.ReplaceAllString(s, "")
}

// CollapseSplitKeys fixes the `"," "` artifact where a key's opening quote
// was emitted twice: `"a":"x"," "b":1` becomes `"a":"x","b":1`.
func CollapseSplitKeys(s string) string {
	return splitKeySeparator.ReplaceAllString(s, `","`)
}

// StripTrailingCommas removes commas directly before a closing brace or
// bracket.
func StripTrailingCommas(s string) string {
	for {
		next := trailingComma.ReplaceAllString(s, "${1}")
		if next == s {
			return s
		}
		s = next
	}
}

var textFixes = []func(string) string{
	StripOrphanEmptyStrings,
	JoinConcatenatedStrings,
	CollapseSplitKeys,
	StripTrailingCommas,
}

// ApplyTextFixes runs every textual repair in its fixed order.
func ApplyTextFixes(s string) string {
	for _, fix := range textFixes {
		s = fix(s)
	}
	return s
}

// Repair parses candidate as a JSON object, trying a strict parse, then the
// textual fixes, then a general-purpose repair of the original candidate.
// It never panics and returns a *RepairError when all stages fail.
func Repair(candidate string) (obj Object, stage RepairStage, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj, stage = nil, ""
			err = &RepairError{Stage: StageGeneral, Err: fmt.Errorf("panic during repair: %v", r)}
		}
	}()

	if obj, err := decodeObject(candidate); err == nil {
		return obj, StageStrict, nil
	}

	if fixed := ApplyTextFixes(candidate); fixed != candidate {
		if obj, err := decodeObject(fixed); err == nil {
			return obj, StageHeuristic, nil
		}
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, "", &RepairError{Stage: StageGeneral, Err: err}
	}
	obj, err = decodeObject(repaired)
	if err != nil {
		return nil, "", &RepairError{Stage: StageGeneral, Err: err}
	}
	return obj, StageGeneral, nil
}

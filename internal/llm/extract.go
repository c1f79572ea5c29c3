package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

type extraction struct {
	Appointments []json.RawMessage `json:"appointments"`
}

// ExtractAppointments recovers the appointments array from a model reply that
// may be bare JSON, a fenced code block, or an object buried in prose.
// Items come back raw; per-item validation belongs to the normalizer so one
// malformed item cannot poison its siblings.
func ExtractAppointments(content string) ([]json.RawMessage, error) {
	candidate := content
	if m := fenceRE.FindStringSubmatch(content); m != nil {
		candidate = m[1]
	}

	var env extraction
	if err := json.Unmarshal([]byte(candidate), &env); err == nil {
		return env.Appointments, nil
	}

	// Fallback: the widest brace-delimited span.
	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start >= 0 && end > start {
		err := json.Unmarshal([]byte(candidate[start:end+1]), &env)
		if err == nil {
			return env.Appointments, nil
		}
		return nil, &UnparseableError{Cause: err}
	}

	return nil, &UnparseableError{}
}

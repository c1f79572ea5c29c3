package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// maxInputLen bounds how much user text goes into the request, to keep
// request cost and latency predictable. Longer input is silently cut.
const maxInputLen = 2000

var appointmentSchema = mustSchema()

func mustSchema() string {
	r := &jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&RawAppointment{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("reflecting appointment schema: %v", err))
	}
	return string(data)
}

func buildSystemPrompt() string {
	return fmt.Sprintf(`You are an appointment extraction assistant. Convert the user's free-form text into structured appointment records.

Each appointment object must match this schema:
%s

Rules:
- Reply with a single JSON object with exactly one key, "appointments", holding an array of appointment objects
- Use null for missing optional fields and [] for empty lists; never omit a key
- type is one of: medical, work, personal_event, other
- date is YYYY-MM-DD, time and end_time are 24-hour HH:MM
- recurrence.pattern is one of: none, daily, weekly, monthly, yearly
- Extract every distinct appointment mentioned; return an empty array if the text mentions none
- Do not include any text outside the JSON object`, appointmentSchema)
}

func buildUserPrompt(text string) string {
	return truncateInput(text)
}

// truncateInput keeps the first maxInputLen characters. Deterministic and
// silent; callers are not told about the cut.
func truncateInput(text string) string {
	runes := []rune(text)
	if len(runes) <= maxInputLen {
		return text
	}
	return string(runes[:maxInputLen])
}

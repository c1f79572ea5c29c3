package llm

import "encoding/json"

// RawAppointment is the untrusted appointment shape produced by the model.
// Every field may be absent, null, or malformed; nothing here is safe to
// persist until the normalizer has been over it.
type RawAppointment struct {
	Type            string      `json:"type"`
	Title           string      `json:"title"`
	Date            string      `json:"date" jsonschema:"description=Calendar date as YYYY-MM-DD"`
	Time            string      `json:"time" jsonschema:"description=Start time as 24h HH:MM"`
	EndTime         string      `json:"end_time"`
	Location        string      `json:"location"`
	Person          string      `json:"person"`
	PreActions      []string    `json:"pre_actions"`
	PostActions     []string    `json:"post_actions"`
	Tags            []string    `json:"tags"`
	Recurrence      *Recurrence `json:"recurrence"`
	ReminderMinutes *int        `json:"reminder_minutes"`
	Notes           string      `json:"notes"`
}

// Recurrence describes how an appointment repeats.
type Recurrence struct {
	Pattern    string   `json:"pattern" jsonschema:"enum=none,enum=daily,enum=weekly,enum=monthly,enum=yearly"`
	Every      int      `json:"every"`
	DaysOfWeek []string `json:"days_of_week"`
}

// DecodeRawAppointment decodes a single extracted item, keeping whatever
// fields did decode. A malformed field degrades that field to its zero value
// instead of rejecting the item.
func DecodeRawAppointment(data json.RawMessage) RawAppointment {
	var raw RawAppointment
	// Partial decodes are fine: encoding/json keeps going past type errors,
	// so well-formed siblings of a bad field still populate.
	_ = json.Unmarshal(data, &raw)
	return raw
}

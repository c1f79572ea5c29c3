package appointment

import (
	"fmt"
	"strings"
	"time"

	"mawid/internal/llm"
)

const (
	// untitledTitle stands in when the model gives no usable title.
	untitledTitle = "untitled appointment"

	// medicalReminderMinutes is the reminder applied to medical appointments
	// that came without one.
	medicalReminderMinutes = 120

	descriptionSeparator = " | "
	defaultStartClock    = "09:00"
)

// Keywords that mark an appointment as medical when they appear in the
// title, notes, or location. The app's original audience wrote in Arabic,
// so the Arabic vocabulary comes first.
var medicalKeywords = []string{
	"مستشفى", // hospital
	"عيادة",  // clinic
	"تحليل",  // lab test
	"دواء",   // medication
	"مراجعة", // follow-up
	"طبيب",   // doctor
	"hospital", "clinic", "lab test", "medication", "follow-up", "doctor",
}

// Fixed suggestion lines appended to medical appointments.
const (
	medicalPreSuggestion  = "before: bring prior reports and lab results"
	medicalPostSuggestion = "after: note the doctor's instructions and any follow-up date"
	medicalReminderLine   = "reminder suggested: at least 15 minutes before"
)

// Normalizer maps raw extracted appointments to storage-ready drafts.
// Pure apart from the injected clock; safe for concurrent use.
type Normalizer struct {
	Now      func() time.Time
	Location *time.Location
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now, Location: time.Local}
}

// Normalize never fails: every malformed field degrades to a documented
// default so one bad item cannot abort a batch.
func (n *Normalizer) Normalize(raw llm.RawAppointment) Draft {
	now := n.Now()
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}

	date := strings.TrimSpace(raw.Date)
	if date == "" {
		date = now.In(loc).Format("2006-01-02")
	}
	clock := strings.TrimSpace(raw.Time)
	if clock == "" {
		clock = defaultStartClock
	}

	start, ok := combineDateTime(date, clock, loc)
	if !ok {
		start = now
	}

	var end *time.Time
	if endClock := strings.TrimSpace(raw.EndTime); endClock != "" {
		// End shares the start's calendar date; a bad end time is dropped,
		// never defaulted.
		if t, ok := combineDateTime(date, endClock, loc); ok {
			end = &t
		}
	}

	medical := isMedical(raw)

	reminder := raw.ReminderMinutes
	if reminder != nil && *reminder < 0 {
		reminder = nil
	}
	if reminder == nil && medical {
		v := medicalReminderMinutes
		reminder = &v
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = untitledTitle
	}

	var tag string
	if len(raw.Tags) > 0 {
		tag = strings.TrimSpace(raw.Tags[0])
	}

	return Draft{
		Title:           title,
		Description:     composeDescription(raw, medical, reminder),
		Tag:             tag,
		Start:           start,
		End:             end,
		Priority:        classifyPriority(raw.Type, medical),
		Status:          StatusScheduled,
		Location:        strings.TrimSpace(raw.Location),
		ReminderMinutes: reminder,
	}
}

func combineDateTime(date, clock string, loc *time.Location) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isMedical checks the free-text fields for medical vocabulary, or the
// category for a medical marker. Either signal is enough.
func isMedical(raw llm.RawAppointment) bool {
	haystack := strings.ToLower(raw.Title + " " + raw.Notes + " " + raw.Location)
	for _, kw := range medicalKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(raw.Type), "medical")
}

// classifyPriority maps the raw category to a priority. Medical
// classification wins over everything, including a "critical" category.
func classifyPriority(category string, medical bool) Priority {
	if medical {
		return PriorityHigh
	}
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "critical"):
		return PriorityCritical
	case strings.Contains(c, "medical"), strings.Contains(c, "medication"):
		return PriorityHigh
	case strings.Contains(c, "work"):
		return PriorityMedium
	case strings.Contains(c, "personal"):
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func composeDescription(raw llm.RawAppointment, medical bool, reminder *int) string {
	var parts []string

	if notes := strings.TrimSpace(raw.Notes); notes != "" {
		parts = append(parts, notes)
	}
	if person := strings.TrimSpace(raw.Person); person != "" {
		parts = append(parts, "with: "+person)
	}

	pre := joinNonEmpty(raw.PreActions)
	if pre != "" {
		parts = append(parts, "before: "+pre)
	}
	post := joinNonEmpty(raw.PostActions)
	if post != "" {
		parts = append(parts, "after: "+post)
	}

	if r := raw.Recurrence; r != nil && r.Pattern != "" && r.Pattern != "none" {
		every := r.Every
		if every <= 0 {
			every = 1
		}
		summary := fmt.Sprintf("%s every %d", r.Pattern, every)
		if days := joinNonEmpty(r.DaysOfWeek); days != "" {
			summary += " on " + days
		}
		parts = append(parts, summary)
	}

	if tags := joinNonEmpty(raw.Tags); tags != "" {
		parts = append(parts, "tags: "+tags)
	}

	if medical {
		if pre == "" {
			parts = append(parts, medicalPreSuggestion)
		}
		if post == "" {
			parts = append(parts, medicalPostSuggestion)
		}
		parts = append(parts, medicalReminderLine)
	}

	if reminder != nil {
		parts = append(parts, fmt.Sprintf("reminder before: %d minutes", *reminder))
	}

	return strings.Join(parts, descriptionSeparator)
}

func joinNonEmpty(items []string) string {
	var kept []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

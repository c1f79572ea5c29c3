package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/emersion/go-ical"

	"mawid/internal/store"
)

// Export writes the given appointments as an iCalendar stream, one VEVENT
// per appointment. Appointments without an end time get a one-hour slot so
// calendar clients render them as blocks.
func Export(w io.Writer, appts []store.Appointment) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//mawid//appointment export//EN")

	now := time.Now()
	for _, a := range appts {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("mawid-%d-%d", a.ID, a.StartTime.Unix()))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, a.StartTime)

		end := a.StartTime.Add(time.Hour)
		if a.EndTime != nil {
			end = *a.EndTime
		}
		event.Props.SetDateTime(ical.PropDateTimeEnd, end)

		event.Props.SetText(ical.PropSummary, a.Title)
		if a.Description != "" {
			event.Props.SetText(ical.PropDescription, a.Description)
		}
		if a.Location != "" {
			event.Props.SetText(ical.PropLocation, a.Location)
		}
		event.Props.SetText(ical.PropStatus, statusToICal(a.Status))
		if a.Tag != "" {
			event.Props.SetText(ical.PropCategories, a.Tag)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

func statusToICal(status string) string {
	if status == "cancelled" {
		return "CANCELLED"
	}
	return "CONFIRMED"
}

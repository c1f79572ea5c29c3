package calendar

import (
	"strings"
	"testing"
	"time"

	"mawid/internal/store"
)

func TestExport_BasicEvent(t *testing.T) {
	start := time.Date(2025, 5, 12, 16, 30, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	reminder := 120

	var buf strings.Builder
	err := Export(&buf, []store.Appointment{
		{
			ID:              1,
			Title:           "فحص دوري",
			Description:     "bring reports",
			Tag:             "health",
			StartTime:       start,
			EndTime:         &end,
			Priority:        "high",
			Status:          "scheduled",
			Location:        "عيادة الأسرة",
			ReminderMinutes: &reminder,
		},
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:mawid-1-",
		"SUMMARY:فحص دوري",
		"LOCATION:عيادة الأسرة",
		"STATUS:CONFIRMED",
		"CATEGORIES:health",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q\n%s", want, out)
		}
	}
}

func TestExport_CancelledStatus(t *testing.T) {
	var buf strings.Builder
	err := Export(&buf, []store.Appointment{
		{ID: 2, Title: "skipped", StartTime: time.Now(), Status: "cancelled"},
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(buf.String(), "STATUS:CANCELLED") {
		t.Errorf("cancelled appointment not marked: %s", buf.String())
	}
}

func TestExport_DefaultSlotWithoutEnd(t *testing.T) {
	start := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

	var buf strings.Builder
	err := Export(&buf, []store.Appointment{
		{ID: 3, Title: "open ended", StartTime: start, Status: "scheduled"},
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "DTSTART") || !strings.Contains(out, "DTEND") {
		t.Errorf("missing DTSTART/DTEND: %s", out)
	}
}

package store

import (
	"path/filepath"
	"testing"
	"time"

	"mawid/internal/appointment"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertDraft(t *testing.T, db *DB, d appointment.Draft, raw string) int64 {
	t.Helper()
	appt := FromDraft(d, raw)
	id, err := db.InsertAppointment(&appt)
	if err != nil {
		t.Fatalf("inserting appointment: %v", err)
	}
	return id
}

func TestInsertAndGetAll(t *testing.T) {
	db := testDB(t)

	start := time.Date(2025, 5, 12, 16, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	reminder := 120

	id := insertDraft(t, db, appointment.Draft{
		Title:           "فحص دوري",
		Description:     "bring reports",
		Tag:             "health",
		Start:           start,
		End:             &end,
		Priority:        appointment.PriorityHigh,
		Status:          appointment.StatusScheduled,
		Location:        "عيادة الأسرة",
		ReminderMinutes: &reminder,
	}, "عندي فحص دوري")

	if id != 1 {
		t.Errorf("first insert id = %d", id)
	}

	appts, err := db.GetAllAppointments()
	if err != nil {
		t.Fatalf("GetAllAppointments: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("got %d appointments", len(appts))
	}

	a := appts[0]
	if a.Title != "فحص دوري" {
		t.Errorf("title = %q", a.Title)
	}
	if !a.StartTime.Equal(start) {
		t.Errorf("start = %v, want %v", a.StartTime, start)
	}
	if a.EndTime == nil || !a.EndTime.Equal(end) {
		t.Errorf("end = %v, want %v", a.EndTime, end)
	}
	if a.ReminderMinutes == nil || *a.ReminderMinutes != 120 {
		t.Errorf("reminder = %v", a.ReminderMinutes)
	}
	if a.RawInput != "عندي فحص دوري" {
		t.Errorf("raw input = %q", a.RawInput)
	}
	if a.Status != string(appointment.StatusScheduled) {
		t.Errorf("status = %q", a.Status)
	}
	if a.NotifiedAt != nil {
		t.Error("new appointment should not be notified")
	}
}

func TestInsert_NilOptionalsStayNil(t *testing.T) {
	db := testDB(t)

	insertDraft(t, db, appointment.Draft{
		Title:    "walk",
		Start:    time.Now().UTC(),
		Priority: appointment.PriorityLow,
		Status:   appointment.StatusScheduled,
	}, "")

	appts, err := db.GetAllAppointments()
	if err != nil {
		t.Fatalf("GetAllAppointments: %v", err)
	}
	if appts[0].EndTime != nil {
		t.Error("end time should be nil")
	}
	if appts[0].ReminderMinutes != nil {
		t.Error("reminder should be nil")
	}
}

func TestGetUpcoming_FiltersStatusAndTime(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()

	insertDraft(t, db, appointment.Draft{
		Title: "past", Start: now.Add(-48 * time.Hour),
		Priority: appointment.PriorityMedium, Status: appointment.StatusScheduled,
	}, "")
	insertDraft(t, db, appointment.Draft{
		Title: "upcoming", Start: now.Add(24 * time.Hour),
		Priority: appointment.PriorityMedium, Status: appointment.StatusScheduled,
	}, "")
	cancelledID := insertDraft(t, db, appointment.Draft{
		Title: "cancelled", Start: now.Add(48 * time.Hour),
		Priority: appointment.PriorityMedium, Status: appointment.StatusScheduled,
	}, "")

	if err := db.UpdateAppointmentStatus(int(cancelledID), appointment.StatusCancelled); err != nil {
		t.Fatalf("UpdateAppointmentStatus: %v", err)
	}

	appts, err := db.GetUpcomingAppointments(now)
	if err != nil {
		t.Fatalf("GetUpcomingAppointments: %v", err)
	}
	if len(appts) != 1 || appts[0].Title != "upcoming" {
		t.Fatalf("unexpected upcoming set: %+v", appts)
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	db := testDB(t)

	id := insertDraft(t, db, appointment.Draft{
		Title: "standup", Start: time.Now().UTC(),
		Priority: appointment.PriorityMedium, Status: appointment.StatusScheduled,
	}, "")

	if err := db.UpdateAppointmentStatus(int(id), appointment.StatusDone); err != nil {
		t.Fatalf("UpdateAppointmentStatus: %v", err)
	}

	appts, _ := db.GetAllAppointments()
	if appts[0].Status != string(appointment.StatusDone) {
		t.Errorf("status = %q, want done", appts[0].Status)
	}

	if err := db.DeleteAppointment(int(id)); err != nil {
		t.Fatalf("DeleteAppointment: %v", err)
	}
	appts, _ = db.GetAllAppointments()
	if len(appts) != 0 {
		t.Errorf("expected empty table, got %d rows", len(appts))
	}
}

func TestGetDueReminders(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC().Truncate(time.Second)
	thirty := 30

	// Window open: starts in 10 minutes with a 30-minute lead.
	dueID := insertDraft(t, db, appointment.Draft{
		Title: "due", Start: now.Add(10 * time.Minute),
		Priority: appointment.PriorityHigh, Status: appointment.StatusScheduled,
		ReminderMinutes: &thirty,
	}, "")

	// Window not open yet: starts in two hours.
	insertDraft(t, db, appointment.Draft{
		Title: "later", Start: now.Add(2 * time.Hour),
		Priority: appointment.PriorityMedium, Status: appointment.StatusScheduled,
		ReminderMinutes: &thirty,
	}, "")

	// No reminder configured.
	insertDraft(t, db, appointment.Draft{
		Title: "silent", Start: now.Add(5 * time.Minute),
		Priority: appointment.PriorityMedium, Status: appointment.StatusScheduled,
	}, "")

	// Already started.
	insertDraft(t, db, appointment.Draft{
		Title: "started", Start: now.Add(-5 * time.Minute),
		Priority: appointment.PriorityMedium, Status: appointment.StatusScheduled,
		ReminderMinutes: &thirty,
	}, "")

	due, err := db.GetDueReminders(now)
	if err != nil {
		t.Fatalf("GetDueReminders: %v", err)
	}
	if len(due) != 1 || due[0].Title != "due" {
		t.Fatalf("unexpected due set: %+v", due)
	}

	if err := db.MarkNotified(int(dueID), now); err != nil {
		t.Fatalf("MarkNotified: %v", err)
	}

	due, err = db.GetDueReminders(now)
	if err != nil {
		t.Fatalf("GetDueReminders after notify: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("notified appointment still due: %+v", due)
	}
}

func TestStateRoundTrip(t *testing.T) {
	db := testDB(t)

	if v, err := db.GetState("missing"); err != nil || v != "" {
		t.Errorf("GetState(missing) = %q, %v", v, err)
	}

	if err := db.SetState("last_export", "2025-05-12"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if err := db.SetState("last_export", "2025-05-13"); err != nil {
		t.Fatalf("SetState overwrite: %v", err)
	}

	v, err := db.GetState("last_export")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if v != "2025-05-13" {
		t.Errorf("state = %q", v)
	}
}

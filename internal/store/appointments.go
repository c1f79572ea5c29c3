package store

import (
	"database/sql"
	"fmt"
	"time"

	"mawid/internal/appointment"
)

type Appointment struct {
	ID              int
	Title           string
	Description     string
	Tag             string
	StartTime       time.Time
	EndTime         *time.Time
	Priority        string
	Status          string
	Location        string
	ReminderMinutes *int
	RawInput        string
	NotifiedAt      *time.Time
	CreatedAt       time.Time
}

// FromDraft converts a normalized draft into a storable appointment,
// keeping the raw text it was extracted from for later inspection.
func FromDraft(d appointment.Draft, rawInput string) Appointment {
	return Appointment{
		Title:           d.Title,
		Description:     d.Description,
		Tag:             d.Tag,
		StartTime:       d.Start,
		EndTime:         d.End,
		Priority:        string(d.Priority),
		Status:          string(d.Status),
		Location:        d.Location,
		ReminderMinutes: d.ReminderMinutes,
		RawInput:        rawInput,
	}
}

const appointmentColumns = `id, title, description, tag, start_time, end_time, priority, status, location, reminder_minutes, raw_input, notified_at, created_at`

func (db *DB) InsertAppointment(a *Appointment) (int64, error) {
	var end interface{}
	if a.EndTime != nil {
		end = a.EndTime.UTC().Format(time.RFC3339)
	}
	var reminder interface{}
	if a.ReminderMinutes != nil {
		reminder = *a.ReminderMinutes
	}

	result, err := db.Exec(
		`INSERT INTO appointments (title, description, tag, start_time, end_time, priority, status, location, reminder_minutes, raw_input)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Description, a.Tag,
		a.StartTime.UTC().Format(time.RFC3339),
		end, a.Priority, a.Status, a.Location, reminder, a.RawInput,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting appointment: %w", err)
	}
	return result.LastInsertId()
}

func (db *DB) GetTodayAppointments() ([]Appointment, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	return db.queryAppointments(
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE start_time >= ? AND start_time < ?
		 ORDER BY start_time ASC`,
		startOfDay.UTC().Format(time.RFC3339),
		endOfDay.UTC().Format(time.RFC3339),
	)
}

func (db *DB) GetUpcomingAppointments(from time.Time) ([]Appointment, error) {
	return db.queryAppointments(
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE start_time >= ? AND status = ?
		 ORDER BY start_time ASC`,
		from.UTC().Format(time.RFC3339),
		string(appointment.StatusScheduled),
	)
}

func (db *DB) GetAllAppointments() ([]Appointment, error) {
	return db.queryAppointments(
		`SELECT ` + appointmentColumns + `
		 FROM appointments
		 ORDER BY start_time ASC`,
	)
}

func (db *DB) UpdateAppointmentStatus(id int, status appointment.Status) error {
	_, err := db.Exec(
		"UPDATE appointments SET status = ? WHERE id = ?",
		string(status), id,
	)
	return err
}

func (db *DB) DeleteAppointment(id int) error {
	_, err := db.Exec("DELETE FROM appointments WHERE id = ?", id)
	return err
}

// GetDueReminders returns scheduled, not-yet-notified appointments whose
// reminder window has opened but whose start time has not passed.
func (db *DB) GetDueReminders(now time.Time) ([]Appointment, error) {
	appts, err := db.queryAppointments(
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE status = ? AND reminder_minutes IS NOT NULL AND notified_at IS NULL AND start_time >= ?
		 ORDER BY start_time ASC`,
		string(appointment.StatusScheduled),
		now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}

	var due []Appointment
	for _, a := range appts {
		remindAt := a.StartTime.Add(-time.Duration(*a.ReminderMinutes) * time.Minute)
		if !now.Before(remindAt) {
			due = append(due, a)
		}
	}
	return due, nil
}

func (db *DB) MarkNotified(id int, at time.Time) error {
	_, err := db.Exec(
		"UPDATE appointments SET notified_at = ? WHERE id = ?",
		at.UTC().Format(time.RFC3339), id,
	)
	return err
}

func (db *DB) queryAppointments(query string, args ...interface{}) ([]Appointment, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		var a Appointment
		var description, tag, location, rawInput sql.NullString
		var endStr, notifiedStr sql.NullString
		var reminder sql.NullInt64
		var startStr, createdStr string

		if err := rows.Scan(
			&a.ID, &a.Title, &description, &tag, &startStr, &endStr,
			&a.Priority, &a.Status, &location, &reminder, &rawInput,
			&notifiedStr, &createdStr,
		); err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}

		a.Description = description.String
		a.Tag = tag.String
		a.Location = location.String
		a.RawInput = rawInput.String

		if reminder.Valid {
			v := int(reminder.Int64)
			a.ReminderMinutes = &v
		}
		if t, err := time.Parse(time.RFC3339, startStr); err == nil {
			a.StartTime = t
		}
		if endStr.Valid {
			if t, err := time.Parse(time.RFC3339, endStr.String); err == nil {
				a.EndTime = &t
			}
		}
		if notifiedStr.Valid {
			if t, err := time.Parse(time.RFC3339, notifiedStr.String); err == nil {
				a.NotifiedAt = &t
			}
		}
		if t, err := time.Parse(time.RFC3339, createdStr); err == nil {
			a.CreatedAt = t
		} else if t, err := time.Parse("2006-01-02 15:04:05", createdStr); err == nil {
			// sqlite CURRENT_TIMESTAMP default
			a.CreatedAt = t
		}

		appts = append(appts, a)
	}

	return appts, rows.Err()
}

package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mawid/internal/config"
	"mawid/internal/notify"
	"mawid/internal/store"
)

// Scheduler is the reminder daemon: it polls the store and fires a desktop
// notification once per appointment when its reminder window opens.
type Scheduler struct {
	cfg *config.Config
	db  *store.DB
}

func New(cfg *config.Config, db *store.DB) *Scheduler {
	return &Scheduler{cfg: cfg, db: db}
}

func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.writePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer s.removePID()

	pollSeconds := s.cfg.Reminders.PollSeconds
	if pollSeconds <= 0 {
		pollSeconds = 60
	}
	interval := time.Duration(pollSeconds) * time.Second

	fmt.Printf("Reminder daemon started (poll interval: %s)\n", interval)

	// Catch up immediately before the first tick.
	s.check(time.Now())

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nReminder daemon stopped.")
			return nil
		case <-time.After(interval):
		}

		s.check(time.Now())
	}
}

func (s *Scheduler) check(now time.Time) {
	due, err := s.db.GetDueReminders(now)
	if err != nil {
		fmt.Printf("Error querying reminders: %v\n", err)
		return
	}

	for _, a := range due {
		if s.cfg.Notifications.Enabled {
			msg := fmt.Sprintf("%s at %s", a.Title, a.StartTime.Local().Format("15:04"))
			if a.Location != "" {
				msg += " - " + a.Location
			}
			// Escalate with sound when the appointment is nearly here.
			send := notify.Send
			if a.StartTime.Sub(now) <= 15*time.Minute {
				send = notify.Alert
			}
			if err := send("mawid", msg); err != nil {
				fmt.Printf("Error sending notification for appointment %d: %v\n", a.ID, err)
				continue
			}
		}

		if err := s.db.MarkNotified(a.ID, now); err != nil {
			fmt.Printf("Error marking appointment %d notified: %v\n", a.ID, err)
		}
	}
}

func pidPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mawid.pid"), nil
}

func (s *Scheduler) writePID() error {
	path, err := pidPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func (s *Scheduler) removePID() {
	if path, err := pidPath(); err == nil {
		os.Remove(path)
	}
}

func ReadPID() (int, error) {
	path, err := pidPath()
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("no running reminder daemon found")
	}

	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file")
	}

	return pid, nil
}

package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Send shows a desktop notification. Failures are returned, not fatal —
// a missing notification daemon should never take the reminder loop down.
func Send(title, message string) error {
	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	return nil
}

// Alert shows a notification with the platform alert sound, used for
// reminders that are about to lapse.
func Alert(title, message string) error {
	if err := beeep.Alert(title, message, ""); err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}
	return nil
}

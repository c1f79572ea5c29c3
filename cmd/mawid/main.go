package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"mawid/internal/appointment"
	"mawid/internal/calendar"
	"mawid/internal/config"
	"mawid/internal/llm"
	"mawid/internal/pipeline"
	"mawid/internal/scheduler"
	"mawid/internal/store"
	"mawid/internal/tui"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mawid",
	Short: "Personal appointment manager with natural-language entry",
	Long:  "mawid keeps your appointments in a local database. Describe them in plain text and let the extraction pipeline turn them into structured records, or add them field by field.",
}

var quickCmd = &cobra.Command{
	Use:   "quick [text]",
	Short: "Extract appointments from free-form text",
	RunE:  runQuick,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an appointment field by field",
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments",
	RunE:  runList,
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an appointment as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatusChange(appointment.StatusDone),
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an appointment",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatusChange(appointment.StatusCancelled),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an appointment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export appointments as an iCalendar file",
	RunE:  runExport,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder daemon",
	RunE:  runRemind,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running reminder daemon",
	RunE:  runStop,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open the config file in your editor",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	addCmd.Flags().String("title", "", "Appointment title")
	addCmd.Flags().String("when", "", "Natural-language time, e.g. \"tomorrow at 4pm\"")
	addCmd.Flags().String("date", "", "Date (YYYY-MM-DD, default today)")
	addCmd.Flags().String("time", "", "Start time (HH:MM, default 09:00)")
	addCmd.Flags().String("end", "", "End time (HH:MM)")
	addCmd.Flags().String("location", "", "Location")
	addCmd.Flags().String("priority", "medium", "Priority: low, medium, high, critical")
	addCmd.Flags().String("tag", "", "Tag")
	addCmd.Flags().Int("reminder", -1, "Reminder lead time in minutes")
	addCmd.Flags().String("notes", "", "Notes")
	addCmd.MarkFlagRequired("title")

	listCmd.Flags().Bool("all", false, "Include past, done and cancelled appointments")
	listCmd.Flags().Bool("today", false, "Only today's appointments")

	configCmd.Flags().String("model", "", "Persist a completion model choice and exit")

	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	logger := newLogger()
	client := llm.NewClient(cfg.LLM.Model, logger)
	return pipeline.New(client, nil, logger)
}

func runQuick(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	pipe := newPipeline(cfg)
	text := strings.TrimSpace(strings.Join(args, " "))

	if text == "" {
		app := tui.NewApp(pipe, db, "")
		p := tea.NewProgram(app)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		if result := app.GetResult(); result != nil && result.Skipped {
			fmt.Println("Skipped.")
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := pipe.Run(ctx, text)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoAppointments) {
			fmt.Println(err)
			return nil
		}
		return err
	}

	fmt.Printf("Extracted %d appointment(s):\n\n", result.Count)
	saved := 0
	for _, d := range result.Drafts {
		printDraft(d)

		appt := store.FromDraft(d, text)
		if _, err := db.InsertAppointment(&appt); err != nil {
			fmt.Printf("\nSaved %d of %d before a storage failure.\n", saved, result.Count)
			return fmt.Errorf("saving appointment %q: %w", d.Title, err)
		}
		saved++
	}

	fmt.Printf("\nSaved %d appointment(s).\n", saved)
	return nil
}

func printDraft(d appointment.Draft) {
	when := d.Start.Local().Format("Mon 02 Jan 15:04")
	if d.End != nil {
		when += "–" + d.End.Local().Format("15:04")
	}
	fmt.Printf("  %s  [%s]  %s\n", when, d.Priority, d.Title)
	if d.Location != "" {
		fmt.Printf("      @ %s\n", d.Location)
	}
	if d.Description != "" {
		fmt.Printf("      %s\n", d.Description)
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	when, _ := cmd.Flags().GetString("when")
	dateStr, _ := cmd.Flags().GetString("date")
	timeStr, _ := cmd.Flags().GetString("time")
	endStr, _ := cmd.Flags().GetString("end")
	location, _ := cmd.Flags().GetString("location")
	priorityStr, _ := cmd.Flags().GetString("priority")
	tag, _ := cmd.Flags().GetString("tag")
	reminder, _ := cmd.Flags().GetInt("reminder")
	notes, _ := cmd.Flags().GetString("notes")

	var start time.Time
	switch {
	case when != "":
		t, err := naturaldate.Parse(when, time.Now(), naturaldate.WithDirection(naturaldate.Future))
		if err != nil {
			return fmt.Errorf("could not understand %q: %w", when, err)
		}
		start = t
	default:
		if dateStr == "" {
			dateStr = time.Now().Format("2006-01-02")
		}
		if timeStr == "" {
			timeStr = "09:00"
		}
		t, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date/time: %w", err)
		}
		start = t
	}

	var end *time.Time
	if endStr != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04", start.Format("2006-01-02")+" "+endStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		end = &t
	}

	priority := appointment.Priority(strings.ToLower(priorityStr))
	switch priority {
	case appointment.PriorityLow, appointment.PriorityMedium, appointment.PriorityHigh, appointment.PriorityCritical:
	default:
		return fmt.Errorf("invalid priority %q — use low, medium, high or critical", priorityStr)
	}

	var reminderPtr *int
	if reminder >= 0 {
		reminderPtr = &reminder
	}

	draft := appointment.Draft{
		Title:           title,
		Description:     notes,
		Tag:             tag,
		Start:           start,
		End:             end,
		Priority:        priority,
		Status:          appointment.StatusScheduled,
		Location:        location,
		ReminderMinutes: reminderPtr,
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	appt := store.FromDraft(draft, "")
	id, err := db.InsertAppointment(&appt)
	if err != nil {
		return fmt.Errorf("saving appointment: %w", err)
	}

	fmt.Printf("Added appointment %d: %s at %s\n", id, title, start.Format("Mon 02 Jan 15:04"))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	today, _ := cmd.Flags().GetBool("today")

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var appts []store.Appointment
	switch {
	case all:
		appts, err = db.GetAllAppointments()
	case today:
		appts, err = db.GetTodayAppointments()
	default:
		appts, err = db.GetUpcomingAppointments(time.Now())
	}
	if err != nil {
		return fmt.Errorf("fetching appointments: %w", err)
	}

	if len(appts) == 0 {
		fmt.Println("No appointments.")
		return nil
	}

	for _, a := range appts {
		when := a.StartTime.Local().Format("Mon 02 Jan 15:04")
		if a.EndTime != nil {
			when += "–" + a.EndTime.Local().Format("15:04")
		}
		line := fmt.Sprintf("  %3d  %-22s  %-8s  %-10s  %s", a.ID, when, a.Priority, a.Status, a.Title)
		if a.Location != "" {
			line += "  @ " + a.Location
		}
		fmt.Println(line)
	}

	fmt.Printf("\n%d appointment(s)\n", len(appts))
	return nil
}

func runStatusChange(status appointment.Status) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid appointment id %q", args[0])
		}

		db, err := store.Open()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := db.UpdateAppointmentStatus(id, status); err != nil {
			return fmt.Errorf("updating appointment %d: %w", id, err)
		}

		fmt.Printf("Appointment %d marked %s.\n", id, status)
		return nil
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid appointment id %q", args[0])
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.DeleteAppointment(id); err != nil {
		return fmt.Errorf("deleting appointment %d: %w", id, err)
	}

	fmt.Printf("Appointment %d deleted.\n", id)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path := cfg.Calendar.ExportPath
	if len(args) > 0 {
		path = args[0]
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	appts, err := db.GetAllAppointments()
	if err != nil {
		return fmt.Errorf("fetching appointments: %w", err)
	}
	if len(appts) == 0 {
		fmt.Println("Nothing to export.")
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := calendar.Export(f, appts); err != nil {
		return err
	}

	fmt.Printf("Exported %d appointment(s) to %s\n", len(appts), path)
	return nil
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return scheduler.New(cfg, db).Run(ctx)
}

func runStop(cmd *cobra.Command, args []string) error {
	pid, err := scheduler.ReadPID()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Printf("Sent stop signal to mawid (PID %d)\n", pid)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		if err := config.SaveLLMModel(model); err != nil {
			return fmt.Errorf("saving model: %w", err)
		}
		fmt.Printf("Model set to %s\n", model)
		return nil
	}

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data := fmt.Sprintf(`[llm]
model = "%s"

[reminders]
poll_seconds = %d

[notifications]
enabled = %t

[calendar]
export_path = "%s"
`,
			cfg.LLM.Model,
			cfg.Reminders.PollSeconds,
			cfg.Notifications.Enabled,
			cfg.Calendar.ExportPath,
		)
		if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mawid/internal/appointment"
	"mawid/internal/pipeline"
	"mawid/internal/store"
)

type viewState int

const (
	inputView viewState = iota
	loadingView
	draftsView
	editView
	confirmationView
)

type Result struct {
	Skipped bool
	Saved   int
}

type extractMsg struct {
	result *pipeline.Result
	err    error
}

type saveMsg struct {
	saved int
	err   error
}

type App struct {
	state   viewState
	input   inputModel
	spinner spinner.Model
	drafts  draftsModel
	edit    editModel
	result  *Result
	errMsg  string
	infoMsg string

	pipe     *pipeline.Pipeline
	db       *store.DB
	rawInput string
	prefill  string
}

func NewApp(pipe *pipeline.Pipeline, db *store.DB, prefill string) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot

	input := newInputModel()
	if prefill != "" {
		input.textarea.SetValue(prefill)
	}

	return &App{
		state:   inputView,
		input:   input,
		spinner: s,
		pipe:    pipe,
		db:      db,
		prefill: prefill,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.input.textarea.Focus(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsMsg, ok := msg.(tea.WindowSizeMsg); ok {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(wsMsg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.result = &Result{Skipped: true}
			return a, tea.Quit
		}
	case extractMsg:
		return a.handleExtract(msg)
	case saveMsg:
		return a.handleSave(msg)
	}

	switch a.state {
	case inputView:
		return a.updateInput(msg)
	case loadingView:
		return a.updateLoading(msg)
	case draftsView:
		return a.updateDrafts(msg)
	case editView:
		return a.updateEdit(msg)
	case confirmationView:
		return a.updateConfirmation(msg)
	}

	return a, nil
}

func (a *App) View() string {
	switch a.state {
	case inputView:
		return a.input.View()
	case loadingView:
		return a.spinner.View() + " Extracting appointments..."
	case draftsView:
		return a.drafts.View()
	case editView:
		return a.edit.View()
	case confirmationView:
		if a.errMsg != "" {
			out := errorStyle.Render("Error: ") + a.errMsg
			if a.infoMsg != "" {
				out += "\n" + a.infoMsg
			}
			return out + "\n\n" + helpStyle.Render("Press any key to exit")
		}
		if a.infoMsg != "" {
			return warningStyle.Render(a.infoMsg) + "\n\n" + helpStyle.Render("Press any key to exit")
		}
		return successStyle.Render(fmt.Sprintf("Saved %d appointment(s).", a.result.Saved)) +
			"\n\n" + helpStyle.Render("Press any key to exit")
	}
	return ""
}

func (a *App) GetResult() *Result {
	return a.result
}

func (a *App) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "enter" && a.input.Value() != "" {
			a.rawInput = a.input.Value()
			a.state = loadingView
			return a, tea.Batch(a.spinner.Tick, a.runPipeline(a.rawInput))
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.spinner, cmd = a.spinner.Update(msg)
	return a, cmd
}

func (a *App) updateDrafts(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "a":
			a.state = loadingView
			return a, tea.Batch(a.spinner.Tick, a.saveDrafts(a.drafts.drafts))
		case "e":
			a.state = editView
			a.edit = newEditModel(a.drafts.drafts)
			return a, nil
		case "r":
			a.state = inputView
			newInput := newInputModel()
			newInput.textarea.SetValue(a.rawInput)
			a.input = newInput
			return a, a.input.textarea.Focus()
		case "s":
			a.result = &Result{Skipped: true}
			return a, tea.Quit
		case "up", "k":
			if a.drafts.cursor > 0 {
				a.drafts.cursor--
			}
		case "down", "j":
			if a.drafts.cursor < len(a.drafts.drafts)-1 {
				a.drafts.cursor++
			}
		}
	}
	return a, nil
}

func (a *App) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" && !a.edit.editing {
			a.drafts.drafts = a.edit.drafts
			a.state = draftsView
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.edit, cmd = a.edit.Update(msg)
	return a, cmd
}

func (a *App) updateConfirmation(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleExtract(msg extractMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.state = confirmationView
		if errors.Is(msg.err, pipeline.ErrNoAppointments) {
			// A benign outcome, not an error.
			a.infoMsg = msg.err.Error()
		} else {
			a.errMsg = msg.err.Error()
		}
		return a, nil
	}

	a.drafts = newDraftsModel(msg.result.Drafts)
	a.state = draftsView
	return a, nil
}

func (a *App) handleSave(msg saveMsg) (tea.Model, tea.Cmd) {
	a.result = &Result{Saved: msg.saved}
	a.state = confirmationView
	if msg.err != nil {
		a.errMsg = msg.err.Error()
		a.infoMsg = fmt.Sprintf("%d appointment(s) were saved before the failure.", msg.saved)
	}
	return a, nil
}

func (a *App) runPipeline(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result, err := a.pipe.Run(ctx, text)
		return extractMsg{result: result, err: err}
	}
}

// saveDrafts persists drafts one at a time, in extraction order. A failure
// stops the batch but keeps what was already saved.
func (a *App) saveDrafts(drafts []appointment.Draft) tea.Cmd {
	return func() tea.Msg {
		saved := 0
		for _, d := range drafts {
			appt := store.FromDraft(d, a.rawInput)
			if _, err := a.db.InsertAppointment(&appt); err != nil {
				return saveMsg{saved: saved, err: err}
			}
			saved++
		}
		return saveMsg{saved: saved}
	}
}

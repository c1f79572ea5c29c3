package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"mawid/internal/appointment"
	"mawid/internal/llm"
)

// ErrEmptyInput is returned before any network call when there is nothing
// to extract from.
var ErrEmptyInput = errors.New("describe the appointment first — the text is empty")

// ErrRateLimited is the wait-and-retry outcome for throttled completions.
var ErrRateLimited = errors.New("the extraction service is busy — wait a moment and try again")

// ErrNoAppointments means the model answered but found nothing to schedule.
// A normal outcome for irrelevant input, not a failure to report loudly.
var ErrNoAppointments = errors.New("no appointments found in the text")

// Completer is the remote text-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, text string) (string, error)
}

// Result carries the normalized drafts in extraction order.
type Result struct {
	Drafts []appointment.Draft
	Count  int
}

// Pipeline runs the full extract-and-normalize flow for one text input.
type Pipeline struct {
	completer  Completer
	normalizer *appointment.Normalizer
	logger     *slog.Logger
}

func New(completer Completer, normalizer *appointment.Normalizer, logger *slog.Logger) *Pipeline {
	if normalizer == nil {
		normalizer = appointment.NewNormalizer()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{completer: completer, normalizer: normalizer, logger: logger}
}

func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	content, err := p.completer.Complete(ctx, text)
	if err != nil {
		var rl *llm.RateLimitError
		if errors.As(err, &rl) {
			p.logger.Debug("completion rate limited", "body", rl.Body)
			return nil, ErrRateLimited
		}
		return nil, err
	}

	items, err := llm.ExtractAppointments(content)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoAppointments
	}

	drafts := make([]appointment.Draft, 0, len(items))
	for _, item := range items {
		drafts = append(drafts, p.normalizer.Normalize(llm.DecodeRawAppointment(item)))
	}

	p.logger.Debug("extraction complete", "items", len(items), "drafts", len(drafts))
	return &Result{Drafts: drafts, Count: len(drafts)}, nil
}

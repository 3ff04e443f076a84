// internal/app/poller.go
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"homework_status_bot/internal/domain/homework"
)

// StatusFetcher returns the raw API payload for submissions changed since checkpoint.
type StatusFetcher interface {
	Fetch(ctx context.Context, checkpoint int64) (any, error)
}

// MessageNotifier delivers a message and swallows delivery failures.
type MessageNotifier interface {
	Notify(chatID int64, text string)
}

// State is everything the poll loop carries from one cycle to the next.
type State struct {
	Checkpoint        int64
	LastStatusMessage string
	LastErrorMessage  string
}

// Poller owns the poll-check-notify cycle and its State.
// Cycles must not run concurrently.
type Poller struct {
	fetcher  StatusFetcher
	notifier MessageNotifier
	chatID   int64
	logger   *logrus.Entry
	state    State
}

func NewPoller(fetcher StatusFetcher, notifier MessageNotifier, chatID int64, checkpoint int64, logger *logrus.Entry) *Poller {
	return &Poller{
		fetcher:  fetcher,
		notifier: notifier,
		chatID:   chatID,
		logger:   logger,
		state:    State{Checkpoint: checkpoint},
	}
}

// State returns a copy of the current loop state.
func (p *Poller) State() State {
	return p.state
}

// ErrorMessage renders the text the user receives for a failed cycle.
func ErrorMessage(err error) string {
	return fmt.Sprintf("Program malfunction: %v", err)
}

// RunCycle performs one poll. It never returns or panics on failure; every
// failure is logged and reported to the user once per distinct message.
func (p *Poller) RunCycle(ctx context.Context) {
	logCtx := p.logger.WithField("checkpoint", p.state.Checkpoint)

	message, err := p.check(ctx)
	if err != nil {
		p.handleFailure(logCtx, err)
		return
	}

	if message == p.state.LastStatusMessage {
		logCtx.Debug("Homework status unchanged")
		return
	}
	p.notifier.Notify(p.chatID, message)
	p.state.LastStatusMessage = message
}

func (p *Poller) check(ctx context.Context) (message string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &homework.UnexpectedError{Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	payload, err := p.fetcher.Fetch(ctx, p.state.Checkpoint)
	if err != nil {
		return "", err
	}

	if ts, ok := homework.CurrentDate(payload); ok {
		p.state.Checkpoint = ts
	}

	item, err := homework.ExtractLatest(payload)
	if err != nil {
		return "", err
	}
	return homework.Describe(item)
}

func (p *Poller) handleFailure(logCtx *logrus.Entry, err error) {
	logCtx.WithError(err).WithField("kind", homework.KindOf(err)).Error("Homework status check failed")

	message := ErrorMessage(err)
	if message == p.state.LastErrorMessage {
		logCtx.Debug("Same failure as last cycle, not notifying again")
		return
	}
	p.notifier.Notify(p.chatID, message)
	p.state.LastErrorMessage = message
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flight-assistant/internal/backend"
	"flight-assistant/internal/logger"
	"flight-assistant/internal/types"
)

var ErrEmptyMessage = errors.New("message is empty")

// Backend is the flight-search service the dispatcher talks to.
type Backend interface {
	Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
}

// Ordering decides how overlapping submissions of one session are
// reconciled when they complete out of order.
type Ordering int

const (
	// OrderingSequenced appends every bot turn to the live transcript and
	// lets only the newest submission replace the flight set.
	OrderingSequenced Ordering = iota
	// OrderingSnapshot writes "transcript at submit time + bot turn" on each
	// completion. A slow earlier request overwrites the turns of a faster
	// later one.
	OrderingSnapshot
)

func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequenced":
		return OrderingSequenced, nil
	case "snapshot":
		return OrderingSnapshot, nil
	}
	return OrderingSequenced, fmt.Errorf("unknown ordering %q", s)
}

func (o Ordering) String() string {
	if o == OrderingSnapshot {
		return "snapshot"
	}
	return "sequenced"
}

type Dispatcher struct {
	backend     Backend
	interpreter *Interpreter
	messages    Messages
	ordering    Ordering
}

func NewDispatcher(b Backend, msgs Messages, ordering Ordering) *Dispatcher {
	return &Dispatcher{
		backend:     b,
		interpreter: NewInterpreter(msgs),
		messages:    msgs,
		ordering:    ordering,
	}
}

// Submit runs one round trip for raw against the session and returns the
// resulting view state. Blank input changes nothing and yields
// ErrEmptyMessage. Backend failures are not returned: they show up as the
// generic error turn.
func (d *Dispatcher) Submit(ctx context.Context, s *Session, raw string) (types.ViewState, error) {
	if strings.TrimSpace(raw) == "" {
		return s.State(), ErrEmptyMessage
	}
	d.roundTrip(ctx, s, raw)
	return s.State(), nil
}

func (d *Dispatcher) roundTrip(ctx context.Context, s *Session, raw string) {
	t := s.begin(raw)
	rid := backend.NewRequestID()
	start := time.Now()

	// Anything that leaves before the outcome is known reports the generic
	// error and keeps the flights. The busy flag is released either way.
	c := completion{turn: BotTurn(d.messages.GenericError)}
	defer func() {
		applied := s.finish(t, d.ordering, c)
		logger.DebugWithFields("[chat] round trip finished", logger.Fields{
			"request_id": rid,
			"seq":        t.seq,
			"applied":    applied,
			"ordering":   d.ordering.String(),
		})
	}()

	// Sent requests are never aborted, even if the caller goes away.
	callCtx := backend.WithRequestID(context.WithoutCancel(ctx), rid)
	resp, err := d.backend.Chat(callCtx, types.ChatRequest{Message: raw})
	if err == nil {
		var out Outcome
		out, err = d.interpreter.Interpret(raw, resp)
		if err == nil {
			c = completion{turn: out.Turn, flights: out.Flights, replaceFlights: true}
		}
	}

	if err != nil {
		kind := backend.Kind(err)
		if errors.Is(err, ErrUnknownResponse) {
			kind = "unexpected_shape"
		}
		logger.ErrorWithFields("[chat] round trip failed", logger.Fields{
			"request_id": rid,
			"kind":       kind,
			"error":      err.Error(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return
	}
	logger.InfoWithFields("[chat] round trip completed", logger.Fields{
		"request_id": rid,
		"flights":    len(c.flights),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

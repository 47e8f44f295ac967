package chat

import (
	"sync"
	"time"

	"flight-assistant/internal/types"
)

// Session is the view state of one conversation: transcript, displayed
// flights and the busy flag. It only changes through Dispatcher.Submit and
// Reset, and every change replaces the slices wholesale.
type Session struct {
	mu       sync.Mutex
	greeting string
	turns    Transcript
	flights  []types.Flight
	busy     bool

	// seq is the id of the latest submission, pending the number of round
	// trips still in flight. generation changes on Reset so completions of
	// requests sent before it are dropped.
	seq        uint64
	pending    int
	generation uint64
	lastSeen   time.Time
}

func NewSession(greeting string) *Session {
	s := &Session{greeting: greeting}
	s.resetLocked()
	return s
}

// State returns a copy of the current view state.
func (s *Session) State() types.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]types.Turn, len(s.turns))
	copy(turns, s.turns)
	flights := make([]types.Flight, len(s.flights))
	copy(flights, s.flights)
	return types.ViewState{Turns: turns, Flights: flights, Busy: s.busy}
}

// Reset drops the conversation and starts over from the greeting.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) resetLocked() {
	s.turns = nil
	if s.greeting != "" {
		s.turns = s.turns.Append(BotTurn(s.greeting))
	}
	s.flights = []types.Flight{}
	s.busy = false
	s.pending = 0
	s.generation++
	s.lastSeen = time.Now()
}

type ticket struct {
	seq        uint64
	generation uint64
	// snapshot is the transcript right after the user turn was appended.
	snapshot Transcript
}

type completion struct {
	turn           types.Turn
	flights        []types.Flight
	replaceFlights bool
}

func (s *Session) begin(userText string) ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = s.turns.Append(UserTurn(userText))
	s.busy = true
	s.seq++
	s.pending++
	s.lastSeen = time.Now()
	return ticket{seq: s.seq, generation: s.generation, snapshot: s.turns}
}

func (s *Session) finish(t ticket, ordering Ordering, c completion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if t.generation != s.generation {
		return false
	}
	s.pending--

	switch ordering {
	case OrderingSnapshot:
		// Last writer wins over the transcript as it was at submit time.
		s.turns = t.snapshot.Append(c.turn)
		if c.replaceFlights {
			s.flights = c.flights
		}
		s.busy = false
		return true
	default:
		s.turns = s.turns.Append(c.turn)
		stale := t.seq != s.seq
		if c.replaceFlights && !stale {
			s.flights = c.flights
		}
		s.busy = s.pending > 0
		return !stale
	}
}

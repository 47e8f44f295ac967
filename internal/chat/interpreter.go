package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"flight-assistant/internal/types"
)

var ErrUnknownResponse = errors.New("unknown chat response shape")

// Outcome is what one completed round trip adds to the view.
type Outcome struct {
	Turn    types.Turn
	Flights []types.Flight
}

type Interpreter struct {
	messages Messages
}

func NewInterpreter(msgs Messages) *Interpreter {
	return &Interpreter{messages: msgs}
}

// Interpret turns a backend reply into the next bot turn and the flight set
// to display. The destination filter is read from userInput, never from the
// reply.
func (in *Interpreter) Interpret(userInput string, resp types.ChatResponse) (Outcome, error) {
	switch r := resp.(type) {
	case types.FlightListResponse:
		filter, _ := ExtractDestination(userInput)
		flights := filter.Apply(r.Flights)
		return Outcome{
			Turn:    BotTurn(in.summary(len(flights), filter)),
			Flights: flights,
		}, nil
	case *types.FlightListResponse:
		if r == nil {
			return Outcome{}, ErrUnknownResponse
		}
		return in.Interpret(userInput, *r)
	case types.ConversationalResponse:
		return Outcome{Turn: BotTurn(r.Reply), Flights: []types.Flight{}}, nil
	case *types.ConversationalResponse:
		if r == nil {
			return Outcome{}, ErrUnknownResponse
		}
		return in.Interpret(userInput, *r)
	default:
		return Outcome{}, fmt.Errorf("%w: %T", ErrUnknownResponse, resp)
	}
}

func (in *Interpreter) summary(count int, f Filter) string {
	dest := f.Destination
	if dest == "" {
		dest = in.messages.AllDestinations
	}
	return strings.NewReplacer(
		"{count}", strconv.Itoa(count),
		"{destination}", dest,
	).Replace(in.messages.FlightSummary)
}

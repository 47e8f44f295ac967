package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flight-assistant/internal/types"
)

func TestInterpretFlightListWithDestination(t *testing.T) {
	in := NewInterpreter(DefaultMessages())
	resp := types.FlightListResponse{Flights: []types.Flight{
		flightTo("JFK", "Avianca"),
		flightTo("MIA", "LATAM"),
		flightTo("JFK", "Delta"),
	}}

	out, err := in.Interpret("busco vuelos DESTINO: jfk", resp)
	require.NoError(t, err)
	assert.Len(t, out.Flights, 2)
	for _, f := range out.Flights {
		assert.Equal(t, "JFK", f.Arrival.IATACode)
	}
	assert.Equal(t, types.SpeakerBot, out.Turn.Speaker)
	assert.Equal(t, "Se encontraron 2 vuelos para el destino JFK.", out.Turn.Text)
}

func TestInterpretFlightListWithoutDestination(t *testing.T) {
	in := NewInterpreter(DefaultMessages())
	flights := []types.Flight{flightTo("JFK", "Avianca"), flightTo("MIA", "LATAM")}

	out, err := in.Interpret("vuelos baratos", types.FlightListResponse{Flights: flights})
	require.NoError(t, err)
	assert.Equal(t, flights, out.Flights)
	assert.Equal(t, "Se encontraron 2 vuelos para el destino todos los destinos.", out.Turn.Text)
}

func TestInterpretIgnoresDestinationInReply(t *testing.T) {
	in := NewInterpreter(DefaultMessages())
	out, err := in.Interpret("hola", types.ConversationalResponse{Reply: "prueba con destino: jfk"})
	require.NoError(t, err)
	assert.Equal(t, "prueba con destino: jfk", out.Turn.Text)
	assert.NotNil(t, out.Flights)
	assert.Empty(t, out.Flights)
}

func TestInterpretConversationalReplyVerbatim(t *testing.T) {
	in := NewInterpreter(DefaultMessages())
	reply := "  ¿A dónde\nquieres viajar?  "
	out, err := in.Interpret("destino: jfk", &types.ConversationalResponse{Reply: reply})
	require.NoError(t, err)
	assert.Equal(t, reply, out.Turn.Text)
	assert.Empty(t, out.Flights)
}

func TestInterpretCustomSummary(t *testing.T) {
	msgs := DefaultMessages()
	msgs.FlightSummary = "{count} flights to {destination}"
	msgs.AllDestinations = "anywhere"
	in := NewInterpreter(msgs)

	out, err := in.Interpret("cheap", types.FlightListResponse{Flights: []types.Flight{}})
	require.NoError(t, err)
	assert.Equal(t, "0 flights to anywhere", out.Turn.Text)
}

func TestInterpretUnknownResponse(t *testing.T) {
	in := NewInterpreter(DefaultMessages())

	_, err := in.Interpret("hola", nil)
	assert.True(t, errors.Is(err, ErrUnknownResponse))

	var nilList *types.FlightListResponse
	_, err = in.Interpret("hola", nilList)
	assert.True(t, errors.Is(err, ErrUnknownResponse))
}

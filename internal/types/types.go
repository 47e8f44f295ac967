package types

type Speaker string

const (
	SpeakerBot  Speaker = "bot"
	SpeakerUser Speaker = "user"
)

// Turn is one entry of the chat transcript.
type Turn struct {
	Speaker Speaker `json:"sender"`
	Text    string  `json:"text"`
}

type Endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
	Terminal string `json:"terminal,omitempty"`
}

type Flight struct {
	Airline   string   `json:"airline"`
	Price     float64  `json:"price"`
	Departure Endpoint `json:"departure"`
	Arrival   Endpoint `json:"arrival"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is what the flight-search backend answers with. Exactly one
// of the two shapes is set: a flight list or a conversational reply.
type ChatResponse interface {
	isChatResponse()
}

type FlightListResponse struct {
	Flights []Flight `json:"flights"`
}

type ConversationalResponse struct {
	Reply string `json:"reply"`
}

func (FlightListResponse) isChatResponse()     {}
func (ConversationalResponse) isChatResponse() {}

// ViewState is everything a renderer needs to draw the conversation.
type ViewState struct {
	Turns   []Turn   `json:"messages"`
	Flights []Flight `json:"flights"`
	Busy    bool     `json:"loading"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

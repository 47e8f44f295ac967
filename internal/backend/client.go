package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"flight-assistant/internal/types"
)

const maxErrorBody = 512

// Client talks to the flight-search backend's single chat endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Chat posts the user's text and decodes the reply into one of the two
// response shapes.
func (c *Client) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if rid := RequestIDFromContext(ctx); rid != "" {
		httpReq.Header.Set("X-Request-Id", rid)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := strings.TrimSpace(string(raw))
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: excerpt}
	}
	return DecodeResponse(raw)
}

// DecodeResponse classifies a backend body. A non-null "flights" field makes
// it a flight list; otherwise a string "reply" makes it conversational.
func DecodeResponse(raw []byte) (types.ChatResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if fields == nil {
		return nil, ErrMalformedBody
	}

	if f, ok := fields["flights"]; ok && !isNull(f) {
		var flights []types.Flight
		if err := json.Unmarshal(f, &flights); err != nil {
			return nil, fmt.Errorf("%w: flights: %v", ErrUnexpectedShape, err)
		}
		if flights == nil {
			flights = []types.Flight{}
		}
		return types.FlightListResponse{Flights: flights}, nil
	}

	if r, ok := fields["reply"]; ok {
		var reply string
		if err := json.Unmarshal(r, &reply); err != nil {
			return nil, fmt.Errorf("%w: reply: %v", ErrUnexpectedShape, err)
		}
		return types.ConversationalResponse{Reply: reply}, nil
	}
	return nil, ErrUnexpectedShape
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

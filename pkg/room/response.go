package room

import (
	"holdem-server/pkg/table"
)

// Response is a message sent to the web client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	// Context is copied from the message that caused the response
	Context string `json:"context,omitempty"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

func newErrorResponse(ctx string, err error) *Response {
	msg := "internal error"
	if table.IsUserError(err) {
		msg = err.Error()
	}

	return &Response{
		Key:     "error",
		Code:    table.Code(err),
		Message: msg,
		Context: ctx,
	}
}

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action    string `json:"action"`
	Amount    int    `json:"amount"`
	SeatIndex *int   `json:"seatIndex"`
	Ready     bool   `json:"ready"`
	Name      string `json:"name"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

package room

import (
	"encoding/json"

	"marias-server/pkg/marias"
)

// Response is a message pushed to a connected client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// PayloadIn is the format we expect from a connected client
type PayloadIn struct {
	Action json.RawMessage `json:"action"`
	// Context will be passed back on the response
	Context string `json:"context"`
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
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

func newStateResponse(view *marias.View) *Response {
	return &Response{
		Key:  "gameState",
		Data: view,
	}
}

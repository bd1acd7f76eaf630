package models

import (
	"bytes"
	"encoding/json"
)

const (
	MessageSubscribe = "subscribe"
	MessageSeries    = "series"
	MessageError     = "error"
)

// SubscribeRequest is sent by websocket clients. Days and Seed are kept textual so
// they go through the same lenient parsing as the HTTP query parameters.
type SubscribeRequest struct {
	Type    string `json:"type"`
	Days    Param  `json:"days,omitempty"`
	Period  string `json:"period,omitempty"`
	Seed    Param  `json:"seed,omitempty"`
	Compare bool   `json:"compare,omitempty"`
}

type SeriesMessage struct {
	Type       string  `json:"type"`
	Days       int     `json:"days,omitempty"`
	Seed       float64 `json:"seed,omitempty"`
	Points     Series  `json:"points,omitempty"`
	Comparison Series  `json:"comparison,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Param accepts either a JSON string or a bare JSON number and keeps its text.
type Param string

func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Param(s)
		return nil
	}
	*p = Param(data)
	return nil
}

// Package ws is the websocket gateway. A client subscribes to named live
// queries and receives a snapshot every time the result changes.
package ws

import (
	"encoding/json"
	"time"
)

const (
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
)

// ClientMessage is a request from the browser:
//
//	{"op":"subscribe","id":"feed","query":"chat-messages","params":{"channel_id":"..."}}
//	{"op":"unsubscribe","id":"feed"}
//
// Id is chosen by the client and scopes every reply.
type ClientMessage struct {
	Op     string            `json:"op"`
	ID     string            `json:"id"`
	Query  string            `json:"query,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

const (
	TypeSnapshot     = "snapshot"
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypeError        = "error"
)

// ServerMessage is every frame the server sends. Data is set only on
// snapshots and Error only on errors.
type ServerMessage struct {
	Type  string          `json:"type"`
	ID    string          `json:"id,omitempty"`
	Key   string          `json:"key,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	At    *time.Time      `json:"at,omitempty"`
	Error string          `json:"error,omitempty"`
}

func errorMessage(id, msg string) *ServerMessage {
	return &ServerMessage{Type: TypeError, ID: id, Error: msg}
}

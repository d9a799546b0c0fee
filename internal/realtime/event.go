// Package realtime carries row change events from writers to live queries.
// Events are fanned out in-process by Hub and across instances by Broker
// over Redis pub/sub.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Event is a row change. Record is the row as JSON.
type Event struct {
	Table           string          `json:"table"`
	Type            string          `json:"type"`
	Record          json.RawMessage `json:"record"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

// NewInsert builds an INSERT event for a freshly written row.
func NewInsert(table string, record any) (Event, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s record: %w", table, err)
	}
	return Event{
		Table:           table,
		Type:            EventInsert,
		Record:          raw,
		CommitTimestamp: time.Now().UTC(),
	}, nil
}

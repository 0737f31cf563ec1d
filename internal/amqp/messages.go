package amqp

import (
	"encoding/json"
	"time"
)

// StateSyncMessage announces that a user's state changed. It carries
// only the user and version; the worker fetches the full document from
// the local store.
type StateSyncMessage struct {
	UserID    string    `json:"user_id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewStateSyncMessage(userID string, version int64) *StateSyncMessage {
	return &StateSyncMessage{
		UserID:    userID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *StateSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StateSyncMessageFromJSON(data []byte) (*StateSyncMessage, error) {
	var msg StateSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

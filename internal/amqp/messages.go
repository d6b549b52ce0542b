package amqp

import (
	"encoding/json"
	"time"
)

// Entities that emit change events.
const (
	EntityTransaction = "transaction"
	EntityCrop        = "crop"
	EntityEquipment   = "equipment"
	EntityTodo        = "todo"
)

// Actions carried by change events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventMessage is a lightweight record-changed notification. It carries only
// the entity type, the action and the record ID; consumers fetch the full
// record from the store when they need it.
type EventMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEventMessage creates a change event stamped with the current time.
func NewEventMessage(entity, action, id string) *EventMessage {
	return &EventMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON creates a message from JSON bytes
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

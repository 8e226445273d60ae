package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypePaymentRecorded = "spp.payment.recorded"
	TypePaymentUpdated  = "spp.payment.updated"
	TypePaymentDeleted  = "spp.payment.deleted"
	TypeSavingsRecorded = "savings.transaction.recorded"
	TypeSavingsUpdated  = "savings.transaction.updated"
	TypeSavingsDeleted  = "savings.transaction.deleted"
)

// Event is the envelope published for every finance mutation.
type Event struct {
	Type       string    `json:"type"`
	StudentID  uuid.UUID `json:"student_id"`
	EntityID   uuid.UUID `json:"entity_id"`
	Reference  string    `json:"reference,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, studentID, entityID uuid.UUID, reference, amount string) *Event {
	return &Event{
		Type:       eventType,
		StudentID:  studentID,
		EntityID:   entityID,
		Reference:  reference,
		Amount:     amount,
		OccurredAt: time.Now(),
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

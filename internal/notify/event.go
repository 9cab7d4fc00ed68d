package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kamaubrian/dukapay/internal/domain/model"
)

const (
	EventPaymentCompleted = "PaymentCompleted"
	EventPaymentFailed    = "PaymentFailed"
)

// Event is the JSON envelope published for every terminal payment transition.
type Event struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	OrderID       string    `json:"order_id"`
	Amount        int64     `json:"amount"`
	Phone         string    `json:"phone,omitempty"`
	SettlementRef string    `json:"settlement_ref,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}

func newEvent(eventType string, order *model.Order, reason string) Event {
	return Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		OrderID:       order.ID,
		Amount:        order.Amount,
		Phone:         order.Phone,
		SettlementRef: order.SettlementRef,
		Reason:        reason,
	}
}

func (e Event) marshal() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return b
}

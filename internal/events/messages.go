// Package events carries budget change notifications between the API
// service and the snapshot worker over AMQP.
package events

import (
	"encoding/json"
	"time"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// TransactionEvent is emitted after every successful ledger mutation. The
// worker only needs the owning user and period to refresh the snapshot; the
// remaining fields exist for logging and future consumers.
type TransactionEvent struct {
	UserID        string    `json:"userId"`
	Period        string    `json:"period"`
	TransactionID string    `json:"transactionId"`
	Action        Action    `json:"action"`
	AmountCents   int64     `json:"amountCents"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(userID, period, txID string, action Action, amountCents int64) *TransactionEvent {
	return &TransactionEvent{
		UserID:        userID,
		Period:        period,
		TransactionID: txID,
		Action:        action,
		AmountCents:   amountCents,
		Timestamp:     time.Now().UTC(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

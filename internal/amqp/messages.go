package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"dekugames/internal/core"
)

// PurchaseIntentMessage is the wire form of a purchase intent.
// Price travels as a decimal string so no precision is lost.
type PurchaseIntentMessage struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Nickname  string          `json:"nickname"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Channel   string          `json:"channel"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPurchaseIntentMessage builds a message from a domain intent.
func NewPurchaseIntentMessage(in core.PurchaseIntent) *PurchaseIntentMessage {
	return &PurchaseIntentMessage{
		ID:        in.ID,
		AccountID: in.AccountID,
		Nickname:  in.Nickname,
		Price:     in.Price,
		Currency:  string(in.Currency),
		Channel:   string(in.Channel),
		Message:   in.Message,
		CreatedAt: in.CreatedAt,
	}
}

// Intent converts the message back to the domain type.
func (m *PurchaseIntentMessage) Intent() core.PurchaseIntent {
	return core.PurchaseIntent{
		ID:        m.ID,
		AccountID: m.AccountID,
		Nickname:  m.Nickname,
		Price:     m.Price,
		Currency:  core.Currency(m.Currency),
		Channel:   core.Channel(m.Channel),
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m *PurchaseIntentMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PurchaseIntentMessageFromJSON decodes and checks a message body.
func PurchaseIntentMessageFromJSON(data []byte) (*PurchaseIntentMessage, error) {
	var msg PurchaseIntentMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("purchase intent message missing id")
	}
	if msg.AccountID == "" {
		return nil, fmt.Errorf("purchase intent %s missing account_id", msg.ID)
	}
	return &msg, nil
}

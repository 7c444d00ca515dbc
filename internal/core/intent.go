package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"
)

// Channel is the messaging app a purchase deep link opens.
type Channel string

// PurchaseIntent records that a shopper opened the purchase link for an account.
type PurchaseIntent struct {
	ID        string
	AccountID string
	Nickname  string
	Price     decimal.Decimal
	Currency  Currency
	Channel   Channel
	Message   string
	CreatedAt time.Time
}

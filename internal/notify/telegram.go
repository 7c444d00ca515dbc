// Package notify tells the seller about new purchase intents.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"dekugames/internal/core"
)

// messageSender is the part of *telego.Bot the notifier needs.
type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramNotifier posts intents to a seller chat.
type TelegramNotifier struct {
	bot    messageSender
	chatID int64
}

// NewTelegramNotifier creates a bot client for token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// NotifyIntent sends one message describing in.
func (n *TelegramNotifier) NotifyIntent(ctx context.Context, in core.PurchaseIntent) error {
	if _, err := n.bot.SendMessage(ctx, tu.Message(tu.ID(n.chatID), FormatIntent(in))); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// FormatIntent renders the seller-facing summary.
func FormatIntent(in core.PurchaseIntent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New purchase intent %s\n", in.ID)
	fmt.Fprintf(&b, "Account: %s (#%s)\n", in.Nickname, in.AccountID)
	fmt.Fprintf(&b, "Price: %s\n", core.Money{Amount: in.Price, Currency: in.Currency})
	fmt.Fprintf(&b, "Channel: %s\n", in.Channel)
	if !in.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "At: %s\n", in.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	return strings.TrimRight(b.String(), "\n")
}

package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"dekugames/internal/amqp"
	"dekugames/internal/core"
	"dekugames/internal/log"
)

//go:embed purchase_message.tmpl
var defaultMessageTemplate string

// AccountLookup resolves an account by id.
type AccountLookup interface {
	Account(ctx context.Context, id string) (core.Account, error)
}

// IntentPublisher delivers purchase intents for auditing.
type IntentPublisher interface {
	PublishPurchaseIntent(ctx context.Context, msg *amqp.PurchaseIntentMessage) error
}

// PurchaseConfig holds configuration for purchase deep links
type PurchaseConfig struct {
	Channel          core.Channel
	WhatsAppPhone    string
	TelegramUsername string
	Pricing          core.Pricing

	// Template overrides the built in message when set.
	Template string
}

// Purchase is a built intent plus the link that opens the conversation.
type Purchase struct {
	Intent core.PurchaseIntent
	Link   string
}

type messageData struct {
	Nickname string
	Games    []string
	DLCs     []string
	Price    string
}

// PurchaseService builds purchase messages and deep links.
type PurchaseService struct {
	accounts  AccountLookup
	publisher IntentPublisher
	config    PurchaseConfig
	tmpl      *template.Template
	newID     func() string
	now       func() time.Time
}

// NewPurchaseService parses the message template. publisher may be nil.
func NewPurchaseService(accounts AccountLookup, publisher IntentPublisher, config PurchaseConfig) (*PurchaseService, error) {
	if config.Channel == "" {
		config.Channel = core.ChannelWhatsApp
	}
	if config.Channel != core.ChannelWhatsApp && config.Channel != core.ChannelTelegram {
		return nil, fmt.Errorf("unsupported purchase channel %q", config.Channel)
	}
	if config.Channel == core.ChannelTelegram && config.TelegramUsername == "" {
		return nil, errors.New("telegram channel requires a username")
	}
	if config.Pricing.AccountRate.IsZero() {
		config.Pricing = core.DefaultPricing()
	}

	text := config.Template
	if text == "" {
		text = defaultMessageTemplate
	}
	tmpl, err := template.New("purchase").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse purchase template: %w", err)
	}

	return &PurchaseService{
		accounts:  accounts,
		publisher: publisher,
		config:    config,
		tmpl:      tmpl,
		newID:     uuid.NewString,
		now:       time.Now,
	}, nil
}

// Intent builds the message and link for accountID priced for country.
// Publishing the audit message never fails the call.
func (s *PurchaseService) Intent(ctx context.Context, accountID, country string) (Purchase, error) {
	account, err := s.accounts.Account(ctx, accountID)
	if err != nil {
		return Purchase{}, err
	}

	price := s.config.Pricing.Convert(account.FinalPrice, country, core.KindAccount)
	msg, err := s.render(account, price)
	if err != nil {
		return Purchase{}, err
	}

	intent := core.PurchaseIntent{
		ID:        s.newID(),
		AccountID: account.ID,
		Nickname:  account.Nickname,
		Price:     price.Amount,
		Currency:  price.Currency,
		Channel:   s.config.Channel,
		Message:   msg,
		CreatedAt: s.now().UTC(),
	}

	p := Purchase{Intent: intent, Link: s.link(msg)}

	log.NewStructuredLogger(log.FromContext(ctx).WithComponent(log.ComponentPurchase)).
		LogPurchaseIntent(ctx, intent.ID, intent.AccountID, intent.Nickname, price.String(), string(price.Currency), string(intent.Channel))

	s.publish(ctx, intent)
	return p, nil
}

// Message renders the purchase text without creating an intent.
func (s *PurchaseService) Message(account core.Account, country string) (string, error) {
	return s.render(account, s.config.Pricing.Convert(account.FinalPrice, country, core.KindAccount))
}

func (s *PurchaseService) render(account core.Account, price core.Money) (string, error) {
	data := messageData{Nickname: account.Nickname, Price: price.String()}
	for _, g := range account.Games() {
		data.Games = append(data.Games, g.ItemName)
	}
	for _, d := range account.DLCs() {
		data.DLCs = append(data.DLCs, d.ItemName)
	}

	var b strings.Builder
	if err := s.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render purchase message: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

func (s *PurchaseService) link(msg string) string {
	text := url.QueryEscape(msg)
	// wa.me and t.me both expect %20 rather than +.
	text = strings.ReplaceAll(text, "+", "%20")

	if s.config.Channel == core.ChannelTelegram {
		return "https://t.me/" + url.PathEscape(strings.TrimPrefix(s.config.TelegramUsername, "@")) + "?text=" + text
	}
	phone := strings.TrimLeft(s.config.WhatsAppPhone, "+")
	return "https://wa.me/" + phone + "?text=" + text
}

func (s *PurchaseService) publish(ctx context.Context, intent core.PurchaseIntent) {
	if s.publisher == nil {
		return
	}
	// The redirect must not wait on the broker.
	go func(ctx context.Context) {
		if err := s.publisher.PublishPurchaseIntent(ctx, amqp.NewPurchaseIntentMessage(intent)); err != nil {
			slog.WarnContext(ctx, "Failed to publish purchase intent",
				"component", "purchase",
				"intent_id", intent.ID,
				"account_id", intent.AccountID,
				"error", err)
		}
	}(context.WithoutCancel(ctx))
}

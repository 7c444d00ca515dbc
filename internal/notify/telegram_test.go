package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/shopspring/decimal"

	"dekugames/internal/core"
)

type fakeSender struct {
	got *telego.SendMessageParams
	err error
}

func (f *fakeSender) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &telego.Message{MessageID: 1}, nil
}

func sampleIntent() core.PurchaseIntent {
	return core.PurchaseIntent{
		ID:        "abc",
		AccountID: "42",
		Nickname:  "Mario Pack",
		Price:     decimal.NewFromInt(57500),
		Currency:  core.CLP,
		Channel:   core.ChannelWhatsApp,
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestFormatIntent(t *testing.T) {
	got := FormatIntent(sampleIntent())
	want := "New purchase intent abc\n" +
		"Account: Mario Pack (#42)\n" +
		"Price: $57.500 CLP\n" +
		"Channel: whatsapp\n" +
		"At: 2024-03-01 09:30 UTC"
	if got != want {
		t.Errorf("FormatIntent() =\n%s\nwant\n%s", got, want)
	}
}

func TestTelegramNotifier_NotifyIntent(t *testing.T) {
	sender := &fakeSender{}
	n := &TelegramNotifier{bot: sender, chatID: -100123}

	if err := n.NotifyIntent(context.Background(), sampleIntent()); err != nil {
		t.Fatalf("NotifyIntent() error = %v", err)
	}
	if sender.got == nil {
		t.Fatal("nothing sent")
	}
	if sender.got.ChatID.ID != -100123 {
		t.Errorf("chat id = %d", sender.got.ChatID.ID)
	}
	if !strings.Contains(sender.got.Text, "Mario Pack") {
		t.Errorf("text = %q", sender.got.Text)
	}

	sender.err = errors.New("flood wait")
	if err := n.NotifyIntent(context.Background(), sampleIntent()); err == nil {
		t.Error("send failure should be returned")
	}
}

func TestNewTelegramNotifier_Validation(t *testing.T) {
	if _, err := NewTelegramNotifier("123456:ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghi", 0); err == nil {
		t.Error("missing chat id should fail")
	}
	if _, err := NewTelegramNotifier("not a token", 1); err == nil {
		t.Error("malformed token should fail")
	}
}

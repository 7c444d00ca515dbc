package worker

import (
	"context"
	"fmt"
	"log/slog"

	"dekugames/internal/amqp"
	"dekugames/internal/core"
)

// IntentStore persists purchase intents idempotently by id.
type IntentStore interface {
	RecordIntent(ctx context.Context, in core.PurchaseIntent) (bool, error)
	IntentNotified(ctx context.Context, id string) (bool, error)
	MarkIntentNotified(ctx context.Context, id string) error
}

// Notifier tells the seller about an intent.
type Notifier interface {
	NotifyIntent(ctx context.Context, in core.PurchaseIntent) error
}

// IntentWorker records consumed purchase intents and forwards them to the seller.
type IntentWorker struct {
	store    IntentStore
	notifier Notifier
}

// NewIntentWorker creates a worker. notifier may be nil.
func NewIntentWorker(store IntentStore, notifier Notifier) *IntentWorker {
	return &IntentWorker{store: store, notifier: notifier}
}

// HandleIntent is safe to call again for a redelivered message: the row is
// written once and the seller is notified at most once after a success.
func (w *IntentWorker) HandleIntent(ctx context.Context, msg *amqp.PurchaseIntentMessage) error {
	in := msg.Intent()

	inserted, err := w.store.RecordIntent(ctx, in)
	if err != nil {
		return fmt.Errorf("record intent: %w", err)
	}
	if !inserted {
		slog.InfoContext(ctx, "Purchase intent already recorded", "intent_id", in.ID)
	}

	if w.notifier == nil {
		return nil
	}

	notified, err := w.store.IntentNotified(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("check intent notification: %w", err)
	}
	if notified {
		return nil
	}

	if err := w.notifier.NotifyIntent(ctx, in); err != nil {
		return fmt.Errorf("notify seller: %w", err)
	}
	if err := w.store.MarkIntentNotified(ctx, in.ID); err != nil {
		// The seller already has the message; a retry would duplicate it.
		slog.ErrorContext(ctx, "Failed to mark intent notified", "intent_id", in.ID, "error", err)
	}

	slog.InfoContext(ctx, "Seller notified of purchase intent",
		"intent_id", in.ID,
		"account_id", in.AccountID,
		"channel", in.Channel)
	return nil
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/ports"
)

// Channel is a named notifier.
type Channel struct {
	Name     string
	Notifier ports.Notifier
}

// Results records per-channel delivery success.
type Results map[string]bool

// Fanout delivers every alert to all configured channels. A failing channel
// does not stop the others.
type Fanout struct {
	channels []Channel
	logger   *slog.Logger
}

var _ ports.Notifier = (*Fanout)(nil)

// NewFanout builds a fanout over channels; nil notifiers are skipped.
func NewFanout(logger *slog.Logger, channels ...Channel) *Fanout {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	kept := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Notifier != nil {
			kept = append(kept, ch)
		}
	}
	return &Fanout{channels: kept, logger: logger.With("component", "notify")}
}

// Len reports how many channels are configured.
func (f *Fanout) Len() int {
	return len(f.channels)
}

// CriticalResults sends a critical alert to each channel.
func (f *Fanout) CriticalResults(ctx context.Context, article domain.Article) (Results, error) {
	return f.each(ctx, "critical", func(n ports.Notifier) error {
		return n.NotifyCritical(ctx, article)
	})
}

// SummaryResults sends the daily summary to each channel.
func (f *Fanout) SummaryResults(ctx context.Context, counts domain.RiskCounts) (Results, error) {
	return f.each(ctx, "summary", func(n ports.Notifier) error {
		return n.SendDailySummary(ctx, counts)
	})
}

// NotifyCritical implements ports.Notifier.
func (f *Fanout) NotifyCritical(ctx context.Context, article domain.Article) error {
	_, err := f.CriticalResults(ctx, article)
	return err
}

// SendDailySummary implements ports.Notifier.
func (f *Fanout) SendDailySummary(ctx context.Context, counts domain.RiskCounts) error {
	_, err := f.SummaryResults(ctx, counts)
	return err
}

func (f *Fanout) each(ctx context.Context, kind string, send func(ports.Notifier) error) (Results, error) {
	results := make(Results, len(f.channels))
	var errs []error

	for _, ch := range f.channels {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		err := send(ch.Notifier)
		results[ch.Name] = err == nil
		if err != nil {
			f.logger.Error("notification failed", "channel", ch.Name, "kind", kind, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name, err))
			continue
		}
		f.logger.Info("notification sent", "channel", ch.Name, "kind", kind)
	}

	return results, errors.Join(errs...)
}

// Package messaging combines draft event sinks.
package messaging

import (
	"context"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
)

// Fanout delivers every event to all sinks. A failing sink is logged and
// never blocks the others.
type Fanout struct {
	sinks  []draft.EventPublisher
	logger *logging.Logger
}

func NewFanout(logger *logging.Logger, sinks ...draft.EventPublisher) *Fanout {
	if logger == nil {
		logger = logging.Default()
	}
	kept := make([]draft.EventPublisher, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	return &Fanout{sinks: kept, logger: logger}
}

func (f *Fanout) PublishPickCommitted(ctx context.Context, event draft.PickCommitted) error {
	for _, sink := range f.sinks {
		if err := sink.PublishPickCommitted(ctx, event); err != nil {
			f.logger.WarnContext(ctx, "draft event sink failed",
				"event_type", draft.EventPickCommitted,
				"era_id", event.EraID,
				"pick_number", event.PickNumber,
				"error", err,
			)
		}
	}
	return nil
}

func (f *Fanout) PublishRoundStarted(ctx context.Context, event draft.RoundStarted) error {
	for _, sink := range f.sinks {
		if err := sink.PublishRoundStarted(ctx, event); err != nil {
			f.logger.WarnContext(ctx, "draft event sink failed",
				"event_type", draft.EventRoundStarted,
				"era_id", event.EraID,
				"error", err,
			)
		}
	}
	return nil
}

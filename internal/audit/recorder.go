// Package audit keeps the contract status history.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/partner-contracts/internal/model"
)

type HistoryWriter interface {
	Insert(ctx context.Context, event model.StatusChangeEvent) error
}

// Recorder writes one history row per event. A failed write is logged and
// dropped; it never reaches the caller.
type Recorder struct {
	history HistoryWriter
	log     zerolog.Logger
}

func NewRecorder(history HistoryWriter, log zerolog.Logger) *Recorder {
	return &Recorder{
		history: history,
		log:     log.With().Str("component", "audit").Logger(),
	}
}

func (r *Recorder) StatusChanged(ctx context.Context, event model.StatusChangeEvent) {
	if err := r.history.Insert(context.WithoutCancel(ctx), event); err != nil {
		r.log.Error().Err(err).
			Str("contract_id", event.ContractID.String()).
			Str("kind", string(event.Kind)).
			Str("from", event.From).
			Str("to", event.To).
			Msg("failed to record status history")
	}
}

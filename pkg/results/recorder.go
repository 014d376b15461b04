package results

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/events"
	"github.com/tecu23/duel-server/pkg/registry"
)

const saveTimeout = 5 * time.Second

// Recorder saves every finished game published on the event bus
type Recorder struct {
	store  Store
	logger *zap.Logger
}

// NewRecorder subscribes a recorder for the store on the publisher
func NewRecorder(store Store, publisher *events.Publisher, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Recorder{store: store, logger: logger}
	publisher.Subscribe(events.EventGameFinished, r.handle)

	return r
}

func (r *Recorder) handle(e events.Event) {
	game, ok := e.Payload.(*registry.FinishedGame)
	if !ok {
		r.logger.Warn("unexpected game finished payload", zap.Any("payload", e.Payload))
		return
	}

	result := FromGame(game)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := r.store.SaveResult(ctx, result); err != nil {
		r.logger.Error("failed to save result",
			zap.String("room", result.Room),
			zap.Error(err))
		return
	}

	r.logger.Info("result saved",
		zap.String("result_id", result.ID.String()),
		zap.String("room", result.Room),
		zap.String("winner_id", result.WinnerID),
		zap.Int("moves", len(result.Moves)))
}

package events

import (
	"sync/atomic"

	"raffle/internal/logger"

	"go.uber.org/zap"
)

// ZapEmitter appends events to the structured log as an audit stream.
type ZapEmitter struct {
	sequence atomic.Uint64
}

func NewZapEmitter() *ZapEmitter {
	return &ZapEmitter{}
}

func (e *ZapEmitter) Sequence() uint64 {
	return e.sequence.Load() + 1
}

func (e *ZapEmitter) Emit(event Event) {
	sequence := e.sequence.Add(1)
	logger.Audit().Info(
		"audit",
		zap.Uint64("sequence", sequence),
		zap.String("event", event.Name()),
		zap.Any("payload", event),
	)
}

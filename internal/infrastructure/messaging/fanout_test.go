package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSink struct {
	picks  int
	rounds int
	err    error
}

func (s *countingSink) PublishPickCommitted(context.Context, draft.PickCommitted) error {
	s.picks++
	return s.err
}

func (s *countingSink) PublishRoundStarted(context.Context, draft.RoundStarted) error {
	s.rounds++
	return s.err
}

func TestFanout_FailingSinkDoesNotStopOthers(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := logging.FromZap(zap.New(core))

	broken := &countingSink{err: errors.New("nats: no responders available")}
	healthy := &countingSink{}
	fanout := NewFanout(logger, broken, nil, healthy)

	assert.NoError(t, fanout.PublishPickCommitted(t.Context(), draft.PickCommitted{EraID: 1, PickNumber: 1}))
	assert.NoError(t, fanout.PublishRoundStarted(t.Context(), draft.RoundStarted{EraID: 1}))

	assert.Equal(t, 1, broken.picks)
	assert.Equal(t, 1, healthy.picks)
	assert.Equal(t, 1, healthy.rounds)
	assert.Equal(t, 2, logs.FilterMessage("draft event sink failed").Len())
}

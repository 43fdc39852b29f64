package natsjs

import (
	"context"
	"errors"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJS struct {
	msgs []*nats.Msg
	opts [][]jetstream.PublishOpt
	err  error
}

func (r *recordingJS) PublishMsg(_ context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.msgs = append(r.msgs, msg)
	r.opts = append(r.opts, opts)
	return &jetstream.PubAck{Stream: "DRAFT_EVENTS", Sequence: uint64(len(r.msgs))}, nil
}

func TestPublisher_PickCommitted(t *testing.T) {
	js := &recordingJS{}
	p := newPublisher(nil, js, Config{SubjectPrefix: "draft.events."}, logging.NewNop())

	at := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	err := p.PublishPickCommitted(t.Context(), draft.PickCommitted{
		EraID:      2,
		Generation: 3,
		PickNumber: 7,
		TeamID:     "team-undercut",
		AssetType:  draft.AssetDriver,
		AssetID:    "norris",
		PickedAt:   at,
	})
	require.NoError(t, err)
	require.Len(t, js.msgs, 1)

	msg := js.msgs[0]
	assert.Equal(t, "draft.events.pick_committed", msg.Subject)
	assert.Equal(t, draft.EventPickCommitted, msg.Header.Get("Event-Type"))
	assert.Len(t, js.opts[0], 2)

	var decoded struct {
		EventType  string              `json:"event_type"`
		OccurredAt time.Time           `json:"occurred_at"`
		Payload    draft.PickCommitted `json:"payload"`
	}
	require.NoError(t, sonic.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, draft.EventPickCommitted, decoded.EventType)
	assert.True(t, decoded.OccurredAt.Equal(at))
	assert.Equal(t, "norris", decoded.Payload.AssetID)
	assert.Equal(t, 7, decoded.Payload.PickNumber)
}

func TestPublisher_ReturnsPublishError(t *testing.T) {
	js := &recordingJS{err: errors.New("no responders")}
	p := newPublisher(nil, js, DefaultConfig(), logging.NewNop())

	err := p.PublishRoundStarted(t.Context(), draft.RoundStarted{EraID: 1, Generation: 2, TotalPicks: 16})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft.events.round_started")
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{}.normalized()
	assert.Equal(t, nats.DefaultURL, cfg.URL)
	assert.Equal(t, "DRAFT_EVENTS", cfg.Stream)
	assert.Equal(t, "draft.events", cfg.SubjectPrefix)
	assert.Equal(t, 2*time.Hour, cfg.DuplicateWindow)
}

package natsjs

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

type Config struct {
	URL             string
	Stream          string
	SubjectPrefix   string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration
	DuplicateWindow time.Duration
	PublishTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:             nats.DefaultURL,
		Stream:          "DRAFT_EVENTS",
		SubjectPrefix:   "draft.events",
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		MaxAge:          7 * 24 * time.Hour,
		DuplicateWindow: 2 * time.Hour,
		PublishTimeout:  5 * time.Second,
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(c.URL) == "" {
		c.URL = defaults.URL
	}
	if strings.TrimSpace(c.Stream) == "" {
		c.Stream = defaults.Stream
	}
	c.SubjectPrefix = strings.TrimRight(strings.TrimSpace(c.SubjectPrefix), ".")
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = defaults.SubjectPrefix
	}
	if c.ReconnectWait <= 0 {
		c.ReconnectWait = defaults.ReconnectWait
	}
	if c.MaxAge <= 0 {
		c.MaxAge = defaults.MaxAge
	}
	if c.DuplicateWindow <= 0 {
		c.DuplicateWindow = defaults.DuplicateWindow
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaults.PublishTimeout
	}
	return c
}

// msgPublisher is the slice of jetstream.JetStream the publisher needs.
type msgPublisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher writes draft events to a JetStream stream. Message ids make
// redelivered publishes idempotent inside the duplicate window.
type Publisher struct {
	nc     *nats.Conn
	js     msgPublisher
	cfg    Config
	logger *logging.Logger
}

type envelope struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func Connect(ctx context.Context, cfg Config, logger *logging.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.normalized()

	nc, err := nats.Connect(cfg.URL,
		nats.Name("f1-fantasy-draft"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats async error", "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        cfg.Stream,
		Description: "draft pick and round events",
		Subjects:    []string{cfg.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		Storage:     jetstream.FileStorage,
		MaxAge:      cfg.MaxAge,
		Duplicates:  cfg.DuplicateWindow,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.Stream, err)
	}

	logger.Info("jetstream publisher ready", "stream", cfg.Stream, "subjects", cfg.SubjectPrefix+".>")
	return newPublisher(nc, js, cfg, logger), nil
}

func newPublisher(nc *nats.Conn, js msgPublisher, cfg Config, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{nc: nc, js: js, cfg: cfg.normalized(), logger: logger.Component("nats_publisher")}
}

func (p *Publisher) PublishPickCommitted(ctx context.Context, event draft.PickCommitted) error {
	msgID := fmt.Sprintf("%s-%d-%d-%d", draft.EventPickCommitted, event.EraID, event.Generation, event.PickNumber)
	return p.publish(ctx, draft.EventPickCommitted, msgID, event.PickedAt, event)
}

func (p *Publisher) PublishRoundStarted(ctx context.Context, event draft.RoundStarted) error {
	msgID := fmt.Sprintf("%s-%d-%d", draft.EventRoundStarted, event.EraID, event.Generation)
	return p.publish(ctx, draft.EventRoundStarted, msgID, time.Now().UTC(), event)
}

func (p *Publisher) publish(ctx context.Context, eventType, msgID string, at time.Time, payload any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(envelope{
		EventType:  eventType,
		OccurredAt: at.UTC(),
		Payload:    payload,
	}); err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	// the pooled buffer is reused after return
	data := append([]byte(nil), buf.B...)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()

	subject := p.cfg.SubjectPrefix + "." + eventType
	ack, err := p.js.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{eventType},
		},
	},
		jetstream.WithMsgID(msgID),
		jetstream.WithExpectStream(p.cfg.Stream),
	)
	if err != nil {
		return fmt.Errorf("publish %s to jetstream: %w", subject, err)
	}

	p.logger.DebugContext(ctx, "published draft event",
		"subject", subject,
		"msg_id", msgID,
		"sequence", ack.Sequence,
		"duplicate", ack.Duplicate,
	)
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
	}
}

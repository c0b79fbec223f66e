// Package events publishes board change notifications over NATS.
//
// Each model.ChangeEvent is published as JSON on the subject
//
//	<prefix>.<type>
//
// so subscribers can listen to board.cards.> or to a single change type.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/baiirun/board/internal/model"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "board.cards"

// Publisher sends change events to NATS.
type Publisher struct {
	nc     *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewPublisher wraps an existing connection. The caller owns nc.
func NewPublisher(nc *nats.Conn, prefix string, logger *zap.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{nc: nc, prefix: prefix, logger: logger}
}

// Connect dials url with reconnects enabled.
func Connect(url string, logger *zap.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("board"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	if logger != nil {
		logger.Info("connected to NATS", zap.String("url", url))
	}
	return nc, nil
}

// Subject returns the subject an event of type t is published on.
func (p *Publisher) Subject(t model.ChangeType) string {
	return p.prefix + "." + string(t)
}

// Notify publishes ev. Errors are returned for the caller to log; the
// service treats them as non-fatal.
func (p *Publisher) Notify(ctx context.Context, ev model.ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	subject := p.Subject(ev.Type)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("change published", zap.String("subject", subject), zap.String("card_id", ev.CardID))
	return nil
}

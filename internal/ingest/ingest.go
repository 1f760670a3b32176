// Package ingest consumes raw fixture lines from NATS and stores the parsed
// records.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"fixture_parser/internal/config"
	"fixture_parser/internal/parser"
	"fixture_parser/internal/storage"
)

// Consumer subscribes to a subject of raw fixture lines, parses each message
// and inserts the result into the local store.
type Consumer struct {
	cfg    config.NATSConfig
	parser *parser.Parser
	db     *storage.SQLite
	log    *zap.Logger
}

// New creates a consumer. The connection is established by Run.
func New(cfg config.NATSConfig, p *parser.Parser, db *storage.SQLite, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{cfg: cfg, parser: p, db: db, log: log}
}

// Run connects to NATS and consumes messages until ctx is cancelled. The
// subscription is drained on shutdown so in-flight messages finish.
func (c *Consumer) Run(ctx context.Context) error {
	nc, err := nats.Connect(c.cfg.URL,
		nats.Name("fixture-parser"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect nats %s: %w", c.cfg.URL, err)
	}
	defer nc.Close()

	sub, err := nc.QueueSubscribe(c.cfg.Subject, c.cfg.Queue, c.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.cfg.Subject, err)
	}
	c.log.Info("ingest started",
		zap.String("url", c.cfg.URL),
		zap.String("subject", c.cfg.Subject),
		zap.String("queue", c.cfg.Queue))

	<-ctx.Done()

	if err := sub.Drain(); err != nil {
		return fmt.Errorf("drain subscription: %w", err)
	}
	c.log.Info("ingest stopped")
	return nil
}

// handle parses one message payload. Multi-line payloads are split, blank
// lines skipped.
func (c *Consumer) handle(msg *nats.Msg) {
	for _, line := range strings.Split(string(msg.Data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec := c.parser.ParseLine(line)
		if _, err := c.db.Insert(line, rec); err != nil {
			c.log.Error("store fixture", zap.Error(err), zap.String("line", line))
			continue
		}
		c.log.Debug("fixture stored",
			zap.String("vessel", rec.VesselName),
			zap.String("charterer", rec.Charterer))
	}
}

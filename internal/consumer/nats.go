// Package consumer feeds events from a NATS subject into the engine.
// Producers publish pre-normalized JSON events; malformed payloads are
// the producer's responsibility and are logged and dropped.
package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/graphiti-systems/graphiti/internal/engine"
	"github.com/graphiti-systems/graphiti/internal/logging"
	"github.com/graphiti-systems/graphiti/internal/models"
)

// Config holds NATS consumer configuration.
type Config struct {
	// URL is the NATS server URL (e.g. "nats://localhost:4222").
	URL string
	// Subject is the subscription subject, wildcards allowed.
	Subject string
	// Name identifies the connection to the server.
	Name string
}

// Consumer subscribes to a subject and ingests decoded events.
type Consumer struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	engine *engine.Engine
	logger *logging.Logger
}

// New connects to NATS and starts the subscription.
func New(cfg Config, eng *engine.Engine, logger *logging.Logger) (*Consumer, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.Subject == "" {
		cfg.Subject = "graphiti.events.>"
	}
	if cfg.Name == "" {
		cfg.Name = "graphiti-consumer"
	}
	if logger == nil {
		logger = logging.Default()
	}

	c := &Consumer{
		engine: eng,
		logger: logger.With(logging.Component("consumer")),
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				c.logger.Warn("nats disconnected", logging.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			c.logger.Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	c.conn = conn

	sub, err := conn.Subscribe(cfg.Subject, c.handle)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %q: %w", cfg.Subject, err)
	}
	c.sub = sub

	c.logger.Info("consuming events", "subject", cfg.Subject, "url", cfg.URL)
	return c, nil
}

func (c *Consumer) handle(msg *nats.Msg) {
	var ev models.Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		c.logger.Warn("dropping malformed event", "subject", msg.Subject, logging.Error(err))
		return
	}
	c.engine.IngestEvent(ev)
}

// Close drains the subscription and closes the connection.
func (c *Consumer) Close() {
	if c.sub != nil {
		_ = c.sub.Drain()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"relaychart/backtest"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
)

const (
	MessageTypeResult = "backtest_result"
	MessageTypeError  = "error"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type subscribeCommand struct {
	Action string `json:"action"`
	RunId  string `json:"run_id,omitempty"`
}

type Config struct {
	Url string
	// Subscribe to a single run, all runs if empty.
	RunId            string
	MinReconnect     time.Duration
	MaxReconnect     time.Duration
	HandshakeTimeout time.Duration
}

// Client receives backtest results pushed by the backend over a websocket.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer
	log    zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		log: log,
	}
}

// Run connects to the backend and sends every received result to response.
// The connection is reestablished with backoff until ctx is done.
// The response channel is closed when Run returns.
func (c *Client) Run(ctx context.Context, response chan<- *backtest.Result) {
	defer close(response)
	b := &backoff.Backoff{
		Min:    c.cfg.MinReconnect,
		Max:    c.cfg.MaxReconnect,
		Factor: 2,
		Jitter: true,
	}
	for {
		err := c.receive(ctx, response, b)
		if ctx.Err() != nil {
			return
		}
		wait := b.Duration()
		if IsClosed(err) {
			c.log.Info().Dur("retry", wait).Msg("feed closed by backend")
		} else {
			c.log.Warn().Err(err).Dur("retry", wait).Str("url", c.cfg.Url).Msg("feed disconnected")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (c *Client) receive(ctx context.Context, response chan<- *backtest.Result, b *backoff.Backoff) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.Url, nil)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", c.cfg.Url, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	if err = conn.WriteJSON(subscribeCommand{Action: "subscribe", RunId: c.cfg.RunId}); err != nil {
		return fmt.Errorf("could not subscribe: %w", err)
	}
	c.log.Info().Str("url", c.cfg.Url).Msg("feed connected")
	b.Reset()

	for {
		var msg Message
		if err = conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("feed connection terminated: %w", err)
		}
		switch msg.Type {
		case MessageTypeResult:
			result, err := backtest.Decode(bytes.NewReader(msg.Payload))
			if err != nil {
				c.log.Error().Err(err).Msg("invalid backtest result received")
				continue
			}
			select {
			case response <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
		case MessageTypeError:
			var text string
			_ = json.Unmarshal(msg.Payload, &text)
			c.log.Error().Str("message", text).Msg("backend reported an error")
		default:
			c.log.Debug().Str("type", msg.Type).Msg("ignoring feed message")
		}
	}
}

// IsClosed reports whether err was caused by a regular close of the connection.
func IsClosed(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure
}

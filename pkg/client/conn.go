// Package client is the player side of the relay: a websocket transport and
// a Session that keeps the lobby view and drives the local game.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/tecu23/duel-server/pkg/messages"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// Conn is a websocket connection to the relay
type Conn struct {
	ws  *websocket.Conn
	ctx context.Context
}

// Dial connects to the relay. The api key is sent as X-Api-Key when set.
func Dial(ctx context.Context, url, apiKey string) (*Conn, error) {
	header := http.Header{}
	if apiKey != "" {
		header.Set("X-Api-Key", apiKey)
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	ws, _, err := websocket.Dial(dialCtx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	return &Conn{ws: ws, ctx: ctx}, nil
}

// Emit sends one event. It satisfies game.Emitter.
func (c *Conn) Emit(event string, payload interface{}) error {
	ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
	defer cancel()

	return wsjson.Write(ctx, c.ws, messages.OutboundMessage{Event: event, Payload: payload})
}

// Next blocks until the relay sends an event
func (c *Conn) Next(ctx context.Context) (messages.InboundMessage, error) {
	var msg messages.InboundMessage
	if err := wsjson.Read(ctx, c.ws, &msg); err != nil {
		return messages.InboundMessage{}, err
	}

	return msg, nil
}

// Close says goodbye to the relay
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}

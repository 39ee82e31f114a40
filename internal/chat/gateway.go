package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// gateway event names on the wire.
const (
	eventMessageCreate = "message_create"
	eventReactionAdd   = "reaction_add"
)

// envelope is the gateway's wire frame.
type envelope struct {
	Type string          `json:"t"`
	Data json.RawMessage `json:"d"`
}

// Gateway consumes the chat platform's websocket event stream and dispatches
// decoded events to a handler. It reconnects with backoff until the context
// is cancelled.
type Gateway struct {
	url     string
	token   string
	handler EventHandler

	reconnectWait time.Duration
}

// NewGateway creates a gateway consumer.
func NewGateway(url, token string, handler EventHandler) *Gateway {
	return &Gateway{
		url:           url,
		token:         token,
		handler:       handler,
		reconnectWait: 5 * time.Second,
	}
}

// Run connects and processes events until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := g.connect(ctx)
		if err != nil {
			slog.Error("gateway connect failed", "error", err)
		} else {
			if err := g.readLoop(ctx, conn); err != nil {
				slog.Error("gateway read loop ended", "error", err)
			}
			conn.Close()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(g.reconnectWait):
		}
	}
}

func (g *Gateway) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 45 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return nil, err
	}

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	identify := envelope{
		Type: "identify",
		Data: json.RawMessage(`{"token":"` + g.token + `"}`),
	}
	if err := conn.WriteJSON(identify); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("gateway connected", "url", g.url)
	return conn, nil
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn) error {
	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			slog.Warn("gateway: undecodable frame", "error", err)
			continue
		}
		g.dispatch(ctx, env)
	}
}

func (g *Gateway) dispatch(ctx context.Context, env envelope) {
	switch env.Type {
	case eventMessageCreate:
		var msg Message
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			slog.Warn("gateway: bad message_create payload", "error", err)
			return
		}
		g.handler.HandleMessage(ctx, msg)

	case eventReactionAdd:
		var r Reaction
		if err := json.Unmarshal(env.Data, &r); err != nil {
			slog.Warn("gateway: bad reaction_add payload", "error", err)
			return
		}
		g.handler.HandleReaction(ctx, r)
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
)

// StatusTokenRejected is the close code the server uses for a bad token.
const StatusTokenRejected websocket.StatusCode = 4001

const readLimit = 1 << 20

// WebSocketDialer dials the realtime endpoint, passing the token as the
// "token" query parameter.
type WebSocketDialer struct {
	HTTPClient *http.Client
}

func (d WebSocketDialer) Dial(ctx context.Context, rawURL, token string) (Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	c, resp, err := websocket.Dial(ctx, u.String(), &websocket.DialOptions{HTTPClient: d.HTTPClient})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: handshake status %d", ErrTokenRejected, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial: %w", err)
	}
	c.SetReadLimit(readLimit)

	return &wsConn{c: c}, nil
}

type wsConn struct {
	c *websocket.Conn
}

// Read decodes frames itself instead of using wsjson.Read, which closes
// the connection on a decode error.
func (w *wsConn) Read(ctx context.Context) (models.ProgressEvent, error) {
	var ev models.ProgressEvent

	_, data, err := w.c.Read(ctx)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case StatusTokenRejected, websocket.StatusPolicyViolation:
			return ev, fmt.Errorf("%w: %v", ErrTokenRejected, err)
		}
		return ev, err
	}

	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return ev, nil
}

func (w *wsConn) Write(ctx context.Context, v any) error {
	return wsjson.Write(ctx, w.c, v)
}

func (w *wsConn) Close() error {
	return w.c.Close(websocket.StatusNormalClosure, "")
}

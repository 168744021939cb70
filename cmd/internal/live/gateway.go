package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/internal/auth/session"
)

// SessionResolver maps a request cookie value onto a member identity.
// session.Manager satisfies it.
type SessionResolver interface {
	CookieName() string
	ResolveCookieValue(ctx context.Context, now time.Time, value string) (*identity.User, error)
}

// Gateway is the WebSocket entrypoint for the live feed.
//
// Connections are members-only: the session cookie is resolved before the
// upgrade and anonymous requests are rejected with 401. After the upgrade the
// connection is write-only; anything the client sends closes it.
type Gateway struct {
	log      *slog.Logger
	cfg      Config
	hub      *Hub
	sessions SessionResolver

	originPatterns []string
}

// NewGateway constructs a Gateway. hub and sessions are required.
func NewGateway(log *slog.Logger, cfg Config, hub *Hub, sessions SessionResolver) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		log:            log,
		cfg:            cfg,
		hub:            hub,
		sessions:       sessions,
		originPatterns: originPatterns(cfg.AllowedOrigins),
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := g.resolveUser(r)
	if user == nil {
		http.Error(w, "members only", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     g.originPatterns,
		InsecureSkipVerify: g.cfg.DevInsecure,
	})
	if err != nil {
		g.log.Info("live.accept.fail", "err", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	sub := NewSubscriber(newRandomHex(10), user.ID, user.Privileged(), g.cfg.SendQueueSize)
	g.hub.Subscribe(sub)
	defer func() {
		g.hub.Unsubscribe(sub.ID)
		sub.Close()
	}()

	g.log.Info("live.connect", "subscriber_id", sub.ID, "user_id", user.ID)

	// CloseRead cancels the returned context when the peer closes or sends a
	// frame, which is exactly the contract of a broadcast-only feed.
	ctx := conn.CloseRead(r.Context())

	ticker := time.NewTicker(g.cfg.HeartbeatInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case <-ticker.C:
			hbCtx, hbCancel := context.WithTimeout(ctx, g.cfg.HeartbeatTimeout)
			err := conn.Ping(hbCtx)
			hbCancel()

			if err != nil {
				failures++
				if failures >= maxPingFailures {
					g.log.Info("live.heartbeat.fail", "subscriber_id", sub.ID, "err", err)
					_ = conn.Close(websocket.StatusGoingAway, "heartbeat failed")
					return
				}
				continue
			}
			failures = 0
		case ev := <-sub.Send:
			if err := writeEvent(ctx, conn, ev, g.cfg.WriteTimeout); err != nil {
				g.log.Info("live.write.fail", "subscriber_id", sub.ID, "err", err)
				return
			}
		}
	}
}

func (g *Gateway) resolveUser(r *http.Request) *identity.User {
	value, ok := session.ReadCookie(r, g.sessions.CookieName())
	if !ok {
		return nil
	}
	user, err := g.sessions.ResolveCookieValue(r.Context(), time.Now().UTC(), value)
	if err != nil {
		return nil
	}
	return user
}

func writeEvent(parent context.Context, conn *websocket.Conn, ev Event, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, b)
}

func newRandomHex(nBytes int) string {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "0000000000"
	}
	return hex.EncodeToString(b)
}

// originPatterns extracts the host part of each allowed origin for
// websocket.Accept, which matches patterns against the origin host.
func originPatterns(allowed []string) []string {
	seen := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		if h := originHost(a); h != "" {
			seen[h] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	return out
}

func originHost(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return ""
		}
		s = u.Host
	}

	if host, _, err := net.SplitHostPort(s); err == nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(s)
}

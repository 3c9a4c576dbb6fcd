package viiper

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"
)

// Config controls how the injector reaches the VIIPER server.
type Config struct {
	Addr         string        `help:"VIIPER API server address." default:"localhost:3242" env:"JOYMAP_VIIPER_ADDR" json:"addr" yaml:"addr" toml:"addr"`
	Password     string        `help:"VIIPER API password. Empty disables authentication." env:"JOYMAP_VIIPER_PASSWORD" json:"password" yaml:"password" toml:"password"`
	Bus          uint32        `help:"Bus to attach devices to. 0 picks the first existing bus or creates one." default:"0" env:"JOYMAP_VIIPER_BUS" json:"bus" yaml:"bus" toml:"bus"`
	DialTimeout  time.Duration `help:"Connection timeout." default:"3s" json:"dialTimeout" yaml:"dialTimeout" toml:"dialTimeout"`
	ReadTimeout  time.Duration `help:"Response timeout for management requests." default:"5s" json:"readTimeout" yaml:"readTimeout" toml:"readTimeout"`
	WriteTimeout time.Duration `help:"Write timeout." default:"5s" json:"writeTimeout" yaml:"writeTimeout" toml:"writeTimeout"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = "localhost:3242"
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 3 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 5 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

// Responder answers management requests in place of a server.
type Responder func(path string, payload any, pathParams map[string]string) (string, error)

// Transport is the low-level VIIPER management protocol.
// Request framing: `<path>[ SP <payload>] \x00`. The server answers with a
// single JSON line and closes the connection.
type Transport struct {
	cfg  Config
	mock Responder
}

func NewTransport(cfg Config) *Transport {
	return &Transport{cfg: cfg.withDefaults()}
}

// NewMockTransport returns canned responses without networking.
func NewMockTransport(responder Responder) *Transport {
	return &Transport{cfg: Config{}.withDefaults(), mock: responder}
}

// dial connects and, with a password configured, runs the handshake and
// wraps the connection.
func (t *Transport) dial(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			slog.Warn("failed to set TCP_NODELAY", "error", err)
		}
	}
	if t.cfg.Password == "" {
		return conn, nil
	}

	key, err := DeriveKey(t.cfg.Password)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	clientNonce, serverNonce, err := clientHandshake(bufio.NewReader(conn), conn, key)
	if err != nil {
		conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	wrapped, err := wrapConn(conn, DeriveSessionKey(key, serverNonce, clientNonce))
	if err != nil {
		conn.Close()
		return nil, err
	}
	return wrapped, nil
}

// Do sends one request and returns the response line without its trailing
// newline. Payloads: []byte and string are sent as-is, nil sends none, any
// other value is JSON encoded.
func (t *Transport) Do(ctx context.Context, path string, payload any, pathParams map[string]string) (string, error) {
	if t.mock != nil {
		return t.mock(path, payload, pathParams)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("dial: %w", err)
	}

	line := []byte(fillPath(path, pathParams))
	pb, err := toPayloadBytes(payload)
	if err != nil {
		return "", err
	}
	if len(pb) > 0 {
		line = append(append(line, ' '), pb...)
	}

	conn, err := t.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	if _, err := conn.Write(append(line, '\x00')); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	resp, err := io.ReadAll(conn)
	if err != nil && len(resp) == 0 {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(string(resp), "\n"), nil
}

func fillPath(pattern string, params map[string]string) string {
	out := pattern
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", url.PathEscape(v))
	}
	return strings.ToLower(out)
}

func toPayloadBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		return b, nil
	}
}

package viiper

import (
	"bufio"
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var streamPath = regexp.MustCompile(`^bus/(\d+)/(\d+)$`)

// fakeServer speaks enough of the VIIPER API to attach devices and record
// what their streams receive.
type fakeServer struct {
	t        *testing.T
	ln       net.Listener
	password string

	mu       sync.Mutex
	buses    []uint32
	nextDev  int
	requests []string
	removed  []string
	streams  map[string]*bytes.Buffer
}

func startFakeServer(t *testing.T, password string, buses ...uint32) *fakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{t: t, ln: ln, password: password, buses: buses, streams: map[string]*bytes.Buffer{}}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeServer) Addr() string { return s.ln.Addr().String() }

func (s *fakeServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeServer) handle(raw net.Conn) {
	defer raw.Close()
	var conn net.Conn = raw
	if s.password != "" {
		key, err := DeriveKey(s.password)
		if err != nil {
			return
		}
		clientNonce, serverNonce, err := serverHandshake(bufio.NewReader(raw), raw, key)
		if err != nil {
			return
		}
		if conn, err = wrapConn(raw, DeriveSessionKey(key, serverNonce, clientNonce)); err != nil {
			return
		}
	}

	r := bufio.NewReader(conn)
	line, err := r.ReadString(0)
	if err != nil {
		return
	}
	line = strings.TrimSuffix(line, "\x00")
	path, payload, _ := strings.Cut(line, " ")

	if m := streamPath.FindStringSubmatch(path); m != nil {
		buf := s.stream(m[2])
		chunk := make([]byte, 64)
		for {
			n, err := r.Read(chunk)
			s.mu.Lock()
			buf.Write(chunk[:n])
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}

	_, _ = io.WriteString(conn, s.respond(path, payload)+"\n")
}

func (s *fakeServer) stream(devID string) *bytes.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.streams[devID]
	if !ok {
		buf = &bytes.Buffer{}
		s.streams[devID] = buf
	}
	return buf
}

func (s *fakeServer) respond(path, payload string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, path)

	switch {
	case path == "bus/list":
		out, _ := json.Marshal(BusListResponse{Buses: append([]uint32{}, s.buses...)})
		return string(out)
	case path == "bus/create":
		id := uint32(1)
		if payload != "" {
			v, _ := strconv.ParseUint(payload, 10, 32)
			id = uint32(v)
		}
		s.buses = append(s.buses, id)
		return fmt.Sprintf(`{"busId":%d}`, id)
	case path == "bus/remove":
		s.removed = append(s.removed, "bus "+payload)
		return fmt.Sprintf(`{"busId":%s}`, payload)
	case strings.HasSuffix(path, "/add"):
		var req deviceCreateRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return `{"status":400,"title":"Bad Request","detail":"bad payload"}`
		}
		s.nextDev++
		bus := strings.Split(path, "/")[1]
		return fmt.Sprintf(`{"busId":%s,"devId":"%d","vid":"0x1234","pid":"0x5678","type":%q}`, bus, s.nextDev, req.Type)
	case strings.HasSuffix(path, "/remove"):
		s.removed = append(s.removed, "dev "+payload)
		return fmt.Sprintf(`{"busId":1,"devId":%q}`, payload)
	}
	return `{"status":404,"title":"Not Found","detail":"unknown path"}`
}

func (s *fakeServer) streamBytes(devID string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if buf, ok := s.streams[devID]; ok {
		return append([]byte(nil), buf.Bytes()...)
	}
	return nil
}

func (s *fakeServer) removedItems() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

// serverHandshake is the server half of clientHandshake.
func serverHandshake(r *bufio.Reader, w io.Writer, key []byte) (clientNonce, serverNonce []byte, err error) {
	magic := make([]byte, len(handshakeMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, nil, err
	}
	if string(magic) != handshakeMagic {
		return nil, nil, fmt.Errorf("bad magic %q", magic)
	}
	clientNonce = make([]byte, nonceSize)
	if _, err := io.ReadFull(r, clientNonce); err != nil {
		return nil, nil, err
	}
	tag := make([]byte, 32)
	if _, err := io.ReadFull(r, tag); err != nil {
		return nil, nil, err
	}
	if !hmac.Equal(tag, authTag(key, clientNonce)) {
		_, _ = io.WriteString(w, `{"status":401,"title":"Unauthorized","detail":"invalid password"}`+"\n")
		return nil, nil, fmt.Errorf("invalid password")
	}
	serverNonce = make([]byte, nonceSize)
	_, _ = rand.Read(serverNonce)
	if _, err := w.Write(append([]byte(handshakeOK), serverNonce...)); err != nil {
		return nil, nil, err
	}
	return clientNonce, serverNonce, nil
}

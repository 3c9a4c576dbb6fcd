package viiper

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

var errStreamClosed = errors.New("stream closed")

// Stream is the input channel of one device on the server.
type Stream struct {
	BusID uint32
	DevID string

	conn         net.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
	closed       bool
}

// OpenStream connects to an existing device's stream channel.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*Stream, error) {
	if c.transport.mock != nil {
		return nil, errors.New("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte(fmt.Sprintf("bus/%d/%s\x00", busID, devID))); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &Stream{BusID: busID, DevID: devID, conn: conn, writeTimeout: c.transport.cfg.WriteTimeout}, nil
}

// WriteBinary marshals v and sends it as one device input message.
func (s *Stream) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStreamClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	_, err = s.conn.Write(data)
	return err
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

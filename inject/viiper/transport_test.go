package viiper

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startEchoServer records one request line and answers with response.
func startEchoServer(t *testing.T, response string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		line, _ := bufio.NewReader(conn).ReadString(0)
		got <- line
		_, _ = conn.Write([]byte(response))
	}()
	return ln.Addr().String(), got
}

func TestTransportRequestFraming(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		payload any
		params  map[string]string
		want    string
	}{
		{name: "nil payload", path: "ping", want: "ping\x00"},
		{name: "empty string", path: "ping", payload: "", want: "ping\x00"},
		{name: "bytes", path: "bus/remove", payload: []byte("3"), want: "bus/remove 3\x00"},
		{name: "struct", path: "bus/{id}/add", payload: deviceCreateRequest{Type: "keyboard"}, params: map[string]string{"id": "2"}, want: "bus/2/add {\"type\":\"keyboard\"}\x00"},
		{name: "lower cased", path: "Bus/List", want: "bus/list\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, got := startEchoServer(t, "{}\n")
			tr := NewTransport(Config{Addr: addr})

			resp, err := tr.Do(context.Background(), tt.path, tt.payload, tt.params)
			require.NoError(t, err)
			assert.Equal(t, "{}", resp)
			assert.Equal(t, tt.want, <-got)
		})
	}
}

func TestTransportCancelledContext(t *testing.T) {
	tr := NewTransport(Config{Addr: "127.0.0.1:1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Do(ctx, "ping", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientParsesResponses(t *testing.T) {
	responses := map[string]string{
		"ping":            `{"server":"VIIPER","version":"1.2.3"}`,
		"bus/{id}/add":    `{"busId":1,"devId":"4","vid":"0x1234","pid":"0x5678","type":"mouse"}`,
		"bus/{id}/remove": `{"status":404,"title":"Not Found","detail":"no such device"}`,
	}
	client := WithTransport(NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		return responses[path], nil
	}))
	ctx := context.Background()

	ping, err := client.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", ping.Version)

	dev, err := client.DeviceAdd(ctx, 1, "mouse")
	require.NoError(t, err)
	assert.Equal(t, "4", dev.DevID)

	_, err = client.DeviceRemove(ctx, 1, "9")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.EqualError(t, err, "404 Not Found: no such device")

	_, err = client.BusList(ctx)
	assert.EqualError(t, err, "empty response")

	_, err = client.OpenStream(ctx, 1, "4")
	assert.Error(t, err)
}

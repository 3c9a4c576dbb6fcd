package viiper

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/attack3/joymap/input"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestInjectorEndToEnd(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "plain"},
		{name: "authenticated", password: "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startFakeServer(t, tt.password)
			cfg := Config{Addr: srv.Addr(), Password: tt.password, DialTimeout: time.Second}

			inj, err := Open(context.Background(), cfg, quietLogger())
			require.NoError(t, err)
			assert.True(t, inj.createdBus)
			assert.Equal(t, uint32(1), inj.busID)

			inj.KeyDown(input.KeyW)
			inj.KeyDown(input.KeyCtrl)
			inj.KeyUp(input.KeyW)
			inj.MoveX(5)
			inj.MoveY(3)
			inj.MoveX(100000)

			wantKeyboard := []byte{
				0x00, 1, 0x1A,
				0x01, 1, 0x1A,
				0x01, 0,
			}
			wantMouse := []byte{
				0, 5, 0, 0, 0, 0, 0, 0, 0,
				0, 0, 0, 0xFD, 0xFF, 0, 0, 0, 0,
				0, 0xFF, 0x7F, 0, 0, 0, 0, 0, 0,
			}
			require.Eventually(t, func() bool {
				return len(srv.streamBytes("1")) == len(wantKeyboard) && len(srv.streamBytes("2")) == len(wantMouse)
			}, 2*time.Second, 5*time.Millisecond)
			assert.Equal(t, wantKeyboard, srv.streamBytes("1"))
			assert.Equal(t, wantMouse, srv.streamBytes("2"))

			require.NoError(t, inj.Close())
			assert.Equal(t, []string{"dev 1", "dev 2", "bus 1"}, srv.removedItems())
		})
	}
}

func TestInjectorReusesExistingBus(t *testing.T) {
	srv := startFakeServer(t, "", 7)

	inj, err := Open(context.Background(), Config{Addr: srv.Addr()}, quietLogger())
	require.NoError(t, err)
	assert.False(t, inj.createdBus)
	assert.Equal(t, uint32(7), inj.busID)

	require.NoError(t, inj.Close())
	assert.Equal(t, []string{"dev 1", "dev 2"}, srv.removedItems())
}

func TestInjectorWrongPassword(t *testing.T) {
	srv := startFakeServer(t, "correct")

	_, err := Open(context.Background(), Config{Addr: srv.Addr(), Password: "wrong"}, quietLogger())
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Status)
}

func TestPickBus(t *testing.T) {
	tests := []struct {
		name        string
		existing    string
		want        uint32
		wantBus     uint32
		wantCreated bool
	}{
		{name: "first existing", existing: `{"buses":[3,4]}`, wantBus: 3},
		{name: "requested exists", existing: `{"buses":[3,4]}`, want: 4, wantBus: 4},
		{name: "requested missing", existing: `{"buses":[3]}`, want: 9, wantBus: 9, wantCreated: true},
		{name: "none exist", existing: `{"buses":[]}`, wantBus: 1, wantCreated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var createPayload any
			client := WithTransport(NewMockTransport(func(path string, payload any, _ map[string]string) (string, error) {
				switch path {
				case "bus/list":
					return tt.existing, nil
				case "bus/create":
					createPayload = payload
					if payload == nil {
						return `{"busId":1}`, nil
					}
					return `{"busId":` + payload.(string) + `}`, nil
				}
				return "", errors.New("unexpected " + path)
			}))

			bus, created, err := pickBus(context.Background(), client, tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBus, bus)
			assert.Equal(t, tt.wantCreated, created)
			if tt.wantCreated && tt.want == 0 {
				assert.Nil(t, createPayload)
			}
		})
	}
}

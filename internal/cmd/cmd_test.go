package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/attack3/joymap/internal/profile"
	th "github.com/attack3/joymap/internal/testing"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func writeCapture(t *testing.T, packets ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.bin")
	require.NoError(t, os.WriteFile(path, bytes.Join(packets, nil), 0o644))
	return path
}

func TestSourceOpenRejects(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want string
	}{
		{name: "unknown kind", spec: "serial:/dev/ttyS0", want: "unknown source"},
		{name: "replay without file", spec: "replay", want: "needs a file"},
		{name: "missing replay file", spec: "replay:/does/not/exist.bin", want: "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Source{Source: tt.spec}.open(quietLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSourceOpenReplayAndRecord(t *testing.T) {
	capture := writeCapture(t, th.Packet(1, 2, 3, 4, 0), th.Packet(5, 6, 7, 8, 1))
	record := filepath.Join(t.TempDir(), "record.bin")

	src, err := Source{Source: "replay:" + capture, Record: record}.open(quietLogger())
	require.NoError(t, err)

	buf := make([]byte, 64)
	var got []byte
	for {
		n, err := src.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			assert.True(t, replayDone(err))
			break
		}
	}
	require.NoError(t, src.Close())

	assert.Equal(t, []byte{1, 2, 3, 4, 0, 5, 6, 7, 8, 1}, got)
	recorded, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, got, recorded)
}

func TestOpenInjectorLogAndUnknown(t *testing.T) {
	inj, closer, err := openInjector(context.Background(), "log", Run{}.Viiper, Uinput{}, SendInput{}, quietLogger())
	require.NoError(t, err)
	assert.NotNil(t, inj)
	assert.NoError(t, closer.Close())

	_, _, err = openInjector(context.Background(), "carrier-pigeon", Run{}.Viiper, Uinput{}, SendInput{}, quietLogger())
	assert.ErrorContains(t, err, "unknown injector")
}

func TestLoadProfileFallsBackToDefault(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)

	p, err := loadProfile("", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, profile.Default(), p)

	data, err := profile.Default().Marshal("yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.yaml"), data, 0o644))
	p, err = loadProfile("", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, profile.Default().Buttons, p.Buttons)
}

func TestMonitorPrintsReportsAndStates(t *testing.T) {
	capture := writeCapture(t,
		th.Packet(0x80, 0x80, 0x80, 0x01, 0x00),
		th.Packet(0x80, 0x80, 0x80, 0x01, 0x00),
		th.Packet(0xFF, 0x80, 0x80, 0x00, 0x04),
	)
	var out bytes.Buffer
	m := &Monitor{Input: Source{Source: "replay:" + capture}, States: true, Interval: time.Millisecond}

	require.NoError(t, m.Start(context.Background(), &out, quietLogger(), nil))

	var reports, states []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		switch {
		case strings.HasPrefix(line, "report "):
			reports = append(reports, line)
		case strings.HasPrefix(line, "state  "):
			states = append(states, line)
		}
	}
	assert.Equal(t, []string{
		"report buttons=[1] x=0x80 y=0x80 z=0x80",
		"report buttons=[1] x=0x80 y=0x80 z=0x80",
		"report buttons=[11] x=0xFF y=0x80 z=0x80",
	}, reports)
	require.Len(t, states, 2)
	assert.True(t, strings.HasPrefix(states[0], "state  buttons=[1] x=+0.000"), states[0])
	assert.True(t, strings.HasPrefix(states[1], "state  buttons=[11] x=+0.996"), states[1])
}

func TestRunReplayWithLogInjector(t *testing.T) {
	capture := writeCapture(t,
		th.Packet(0x80, 0x80, 0x80, 0x00, 0x00),
		th.Packet(0x80, 0x00, 0x80, 0x00, 0x00),
	)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	r := &Run{Input: Source{Source: "replay:" + capture}, Injector: "log", Interval: time.Millisecond}

	require.NoError(t, r.Start(context.Background(), logger, nil))

	out := logs.String()
	assert.Contains(t, out, "Replay finished")
	assert.Contains(t, out, "event=key_down key=w")
	assert.Contains(t, out, "event=key_up key=w")
}

func TestRunRejectsBadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buttons:\n  \"12\": a\n"), 0o644))
	r := &Run{Profile: path, Injector: "log"}
	err := r.Start(context.Background(), quietLogger(), nil)
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
}

func decodeTOML(data []byte, v any) error {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return err
	}
	*v.(*map[string]any) = tree.ToMap()
	return nil
}

func TestConfigInitTemplates(t *testing.T) {
	tests := []struct {
		name    string
		command string
		format  string
		decode  func([]byte, any) error
	}{
		{name: "run json", command: "run", format: "json", decode: json.Unmarshal},
		{name: "run yaml", command: "run", format: "yaml", decode: yaml.Unmarshal},
		{name: "monitor toml", command: "monitor", format: "toml", decode: decodeTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "out."+tt.format)
			c := &ConfigInit{Command: tt.command, Format: tt.format, Output: dest}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, tt.decode(data, &got))
			assert.Equal(t, "hid", got["source"])
			if tt.command == "run" {
				assert.Equal(t, "auto", got["injector"])
				viiper, ok := got["viiper"].(map[string]any)
				require.True(t, ok, "viiper section: %#v", got["viiper"])
				assert.Equal(t, "localhost:3242", viiper["addr"])
			} else {
				assert.Equal(t, "5ms", got["interval"])
			}

			assert.ErrorContains(t, c.Run(), "destination exists")
			c.Force = true
			assert.NoError(t, c.Run())
		})
	}
}

func TestConfigProfileWritesDefault(t *testing.T) {
	for _, format := range []string{"yaml", "toml", "json"} {
		t.Run(format, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "profile."+format)
			require.NoError(t, (&ConfigProfile{Format: format, Output: dest}).Run())

			p, err := profile.Load(dest)
			require.NoError(t, err)
			assert.Equal(t, profile.Default(), p)
		})
	}
}

func TestConfigRejectsUnknownFormat(t *testing.T) {
	assert.ErrorContains(t, (&ConfigInit{Command: "run", Format: "ini"}).Run(), "unsupported format")
	assert.ErrorContains(t, (&ConfigProfile{Format: "ini"}).Run(), "unsupported format")
}

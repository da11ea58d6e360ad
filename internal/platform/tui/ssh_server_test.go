package tui

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestServer(t *testing.T, maxSessions int) *SSHServer {
	t.Helper()
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "keys", "host_ed25519")
	cfg.MaxSessions = maxSessions

	srv, err := NewSSHServer(cfg, nil, nil, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	return srv
}

func TestSSHServerSessionLimit(t *testing.T) {
	srv := newTestServer(t, 2)

	r1, ok1 := srv.acquire()
	r2, ok2 := srv.acquire()
	if !ok1 || !ok2 {
		t.Fatal("the first two sessions should be admitted")
	}
	if _, ok := srv.acquire(); ok {
		t.Error("a third session should be rejected")
	}

	r1()
	r3, ok := srv.acquire()
	if !ok {
		t.Error("a released slot should be reusable")
	}
	r2()
	r3()
}

func TestSSHServerUnlimitedSessions(t *testing.T) {
	srv := newTestServer(t, 0)
	for range 100 {
		if _, ok := srv.acquire(); !ok {
			t.Fatal("an unlimited server should admit every session")
		}
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q, expected 127.0.0.1:0", srv.Addr())
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.VisitedNodeCap != 10000 {
		t.Errorf("VisitedNodeCap = %d, want 10000", cfg.VisitedNodeCap)
	}
	if cfg.PollMin != 50*time.Millisecond || cfg.PollMax != time.Second {
		t.Errorf("poll bounds = %s..%s", cfg.PollMin, cfg.PollMax)
	}
	if cfg.Transport != "stdio" {
		t.Errorf("Transport = %q, want stdio", cfg.Transport)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("UIACTL_NODE_CAP", "250")
	t.Setenv("UIACTL_POLL_MIN", "10ms")
	t.Setenv("UIACTL_POLL_MAX", "200ms")
	t.Setenv("UIACTL_MCP_PORT", "9021")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.VisitedNodeCap != 250 {
		t.Errorf("VisitedNodeCap = %d, want 250", cfg.VisitedNodeCap)
	}
	if cfg.PollMin != 10*time.Millisecond || cfg.PollMax != 200*time.Millisecond {
		t.Errorf("poll bounds = %s..%s", cfg.PollMin, cfg.PollMax)
	}
	if cfg.Port != 9021 {
		t.Errorf("Port = %d, want 9021", cfg.Port)
	}
}

func TestLoad_RejectsBadBounds(t *testing.T) {
	t.Setenv("UIACTL_POLL_MIN", "2s")
	t.Setenv("UIACTL_POLL_MAX", "1s")
	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted max < min poll bounds")
	}
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv("UIACTL_NODE_CAP", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a non-numeric node cap")
	}
}

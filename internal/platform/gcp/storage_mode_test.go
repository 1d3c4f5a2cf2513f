package gcp

import (
	"errors"
	"testing"
)

func TestResolveModeDefaultGCS(t *testing.T) {
	cfg, err := ResolveMode("", "")
	if err != nil {
		t.Fatalf("ResolveMode: %v", err)
	}
	if cfg.Mode != ModeGCS || cfg.Fallback {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.Source() != "explicit_or_default" {
		t.Fatalf("Source: got=%q", cfg.Source())
	}
}

func TestResolveModeExplicitGCSIgnoresEmulator(t *testing.T) {
	cfg, err := ResolveMode("GCS", "http://fake-gcs:4443")
	if err != nil {
		t.Fatalf("ResolveMode: %v", err)
	}
	if cfg.Mode != ModeGCS || cfg.IsEmulator() {
		t.Fatalf("cfg: %+v", cfg)
	}
}

func TestResolveModeExplicitEmulator(t *testing.T) {
	cfg, err := ResolveMode("gcs_emulator", "http://fake-gcs:4443/")
	if err != nil {
		t.Fatalf("ResolveMode: %v", err)
	}
	if !cfg.IsEmulator() || cfg.Fallback || cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("cfg: %+v", cfg)
	}
}

func TestResolveModeCompatibilityFallback(t *testing.T) {
	cfg, err := ResolveMode("", "http://fake-gcs:4443")
	if err != nil {
		t.Fatalf("ResolveMode: %v", err)
	}
	if !cfg.IsEmulator() || !cfg.Fallback || cfg.Source() != "compatibility_fallback" {
		t.Fatalf("cfg: %+v", cfg)
	}
}

func TestResolveModeErrors(t *testing.T) {
	cases := []struct{ mode, host string }{
		{"local", ""},
		{"gcs_emulator", ""},
		{"gcs_emulator", "fake-gcs:4443"},
	}
	for _, tc := range cases {
		_, err := ResolveMode(tc.mode, tc.host)
		var me *ModeError
		if !errors.As(err, &me) {
			t.Fatalf("ResolveMode(%q, %q): want *ModeError, got %v", tc.mode, tc.host, err)
		}
	}
}

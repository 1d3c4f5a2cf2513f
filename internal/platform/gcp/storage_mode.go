package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

// ModeConfig says whether uploads go to real GCS or to a fake-gcs emulator.
type ModeConfig struct {
	Mode         Mode
	EmulatorHost string
	// Fallback is set when the emulator was picked only because
	// STORAGE_EMULATOR_HOST was present.
	Fallback bool
}

func (c ModeConfig) IsEmulator() bool { return c.Mode == ModeGCSEmulator }

func (c ModeConfig) Source() string {
	if c.Fallback {
		return "compatibility_fallback"
	}
	return "explicit_or_default"
}

type ModeError struct {
	Mode         string
	EmulatorHost string
	Reason       string
	Cause        error
}

func (e *ModeError) Error() string {
	switch {
	case e.EmulatorHost != "":
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q: %s", e.EmulatorHost, e.Reason)
	case e.Mode != "":
		return fmt.Sprintf("gcs mode %q: %s", e.Mode, e.Reason)
	default:
		return "invalid gcs mode config: " + e.Reason
	}
}

func (e *ModeError) Unwrap() error { return e.Cause }

// ResolveMode interprets the configured mode. An empty mode with an emulator
// host selects the emulator.
func ResolveMode(rawMode, emulatorHost string) (ModeConfig, error) {
	cfg := ModeConfig{EmulatorHost: strings.TrimRight(strings.TrimSpace(emulatorHost), "/")}
	switch m := Mode(strings.ToLower(strings.TrimSpace(rawMode))); m {
	case "":
		cfg.Mode = ModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode, cfg.Fallback = ModeGCSEmulator, true
		}
	case ModeGCS, ModeGCSEmulator:
		cfg.Mode = m
	default:
		return cfg, &ModeError{Mode: rawMode, Reason: fmt.Sprintf("allowed: %q, %q", ModeGCS, ModeGCSEmulator)}
	}
	return cfg, cfg.Validate()
}

func (c ModeConfig) Validate() error {
	switch c.Mode {
	case ModeGCS:
		return nil
	case ModeGCSEmulator:
	default:
		return &ModeError{Mode: string(c.Mode), Reason: "unsupported"}
	}
	if c.EmulatorHost == "" {
		return &ModeError{Mode: string(c.Mode), Reason: "requires STORAGE_EMULATOR_HOST"}
	}
	u, err := url.Parse(c.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ModeError{EmulatorHost: c.EmulatorHost, Reason: "expected absolute URL like http://fake-gcs:4443", Cause: err}
	}
	return nil
}

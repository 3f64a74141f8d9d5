package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("Error writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
device: Digital Piano
any_channel: true
beep: /usr/share/sounds/short-beep.wav
beep_wave: triangle
beep_enabled: false
store: /tmp/midireg.json
keys:
  low: 36
  high: 83
log:
  file: /tmp/midireg.log
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}
	if cfg.Device != "Digital Piano" || cfg.Beep != "/usr/share/sounds/short-beep.wav" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.BeepOn() {
		t.Error("BeepOn() = true, want false")
	}
	if !cfg.AnyChannel || cfg.BeepWave != "triangle" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Keys.Low == nil || cfg.Keys.High == nil || *cfg.Keys.Low != 36 || *cfg.Keys.High != 83 {
		t.Errorf("keys = %v..%v", cfg.Keys.Low, cfg.Keys.High)
	}
	if cfg.Log.File != "/tmp/midireg.log" || cfg.Log.Level != "debug" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadMissingAndEmpty(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if !cfg.BeepOn() || cfg.Device != "" || cfg.Keys.Low != nil || cfg.Keys.High != nil {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	if _, err := Load(writeConfig(t, "")); err != nil {
		t.Errorf("empty config should not fail: %v", err)
	}
	if _, err := Load(""); err != nil {
		t.Errorf("no config path should not fail: %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"malformed":     "device: [unclosed",
		"unknown field": "volume: 11",
		"inverted keys": "keys:\n  low: 80\n  high: 40\n",
		"keys too high": "keys:\n  low: 0\n  high: 128\n",
		"negative low":  "keys:\n  low: -1\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadZeroKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "keys:\n  low: 0\n  high: 0\n"))
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}
	if cfg.Keys.Low == nil || cfg.Keys.High == nil || *cfg.Keys.Low != 0 || *cfg.Keys.High != 0 {
		t.Errorf("keys = %v..%v, want 0..0 set", cfg.Keys.Low, cfg.Keys.High)
	}
}

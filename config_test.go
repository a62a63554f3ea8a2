package sv2wire

import (
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	auth, err := GenerateAuthorityKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("authority: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"listen_addr": "0.0.0.0:3337",
		"preferred_version": 3,
		"supported_flags": 1,
		"authority_key": "` + auth.PublicBase58() + `",
		"cert_validity_seconds": 3600,
		"require_noise": false,
		"log_level": "warn"
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:3337" {
		t.Fatalf("listen addr %q", cfg.ListenAddr)
	}
	if cfg.PreferredVersion != 3 {
		t.Fatalf("preferred version %d", cfg.PreferredVersion)
	}
	if cfg.SupportedFlags != uint32(MiningFlagRequiresStandardJobs) {
		t.Fatalf("supported flags %#x", cfg.SupportedFlags)
	}
	if cfg.CertValidity != time.Hour {
		t.Fatalf("cert validity %s", cfg.CertValidity)
	}
	if cfg.RequireNoise {
		t.Fatalf("require_noise not overridden")
	}
	// Untouched fields keep their defaults.
	if cfg.LogLevel != "warn" || cfg.UseSimdSha256 {
		t.Fatalf("overlay bled into other fields: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreferredVersion = 1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("version 1 accepted")
	}

	cfg = DefaultConfig()
	cfg.SupportedFlags = 1 << 9
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("undefined flag: got %v, want ErrUnknownFlags", err)
	}

	cfg = DefaultConfig()
	cfg.AuthorityKey = "not-a-key"
	if err := cfg.Validate(); !errors.Is(err, ErrParse) {
		t.Fatalf("bad authority key: got %v, want ErrParse", err)
	}

	cfg = DefaultConfig()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown log level accepted")
	}
}

func TestWriteConfigFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "config.json")
	want := DefaultConfig()
	want.PreferredVersion = 4
	want.LogLevel = "info"
	if err := WriteConfigFile(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestNewServerHandlerFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreferredVersion = 6
	cfg.SupportedFlags = uint32(MiningFlagRequiresStandardJobs)
	cfg.SuccessFlags = uint32(MiningSuccessFlagRequiresExtendedChannels)
	h := NewServerHandlerFromConfig(cfg)
	if h.PreferredVersion != 6 {
		t.Fatalf("preferred version %d", h.PreferredVersion)
	}
	if h.SupportedFlags != MiningFlagRequiresStandardJobs {
		t.Fatalf("supported flags %#x", uint32(h.SupportedFlags))
	}
	if h.SuccessFlags != MiningSuccessFlagRequiresExtendedChannels {
		t.Fatalf("success flags %#x", uint32(h.SuccessFlags))
	}
}

func TestEnsureExampleConfig(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureExampleConfig(dir); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.toml.example"))
	if err != nil {
		t.Fatalf("read example: %v", err)
	}
	text := string(data)
	for _, key := range []string{"listen_addr", "preferred_version", "supported_flags", "authority_key", "static_key_file", "require_noise", "log_level"} {
		if !strings.Contains(text, key) {
			t.Fatalf("example is missing %q:\n%s", key, text)
		}
	}
}

package sv2wire

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
)

// exampleTOMLConfig mirrors fileConfig with TOML tags for the generated
// example. Operators copy it next to their real JSON config as documentation
// of every knob.
type exampleTOMLConfig struct {
	ListenAddr       string `toml:"listen_addr"`
	PreferredVersion uint16 `toml:"preferred_version"`
	SupportedFlags   uint32 `toml:"supported_flags"`
	SuccessFlags     uint32 `toml:"success_flags"`
	AuthorityKey     string `toml:"authority_key"`
	StaticKeyFile    string `toml:"static_key_file"`
	CertValiditySec  int64  `toml:"cert_validity_seconds"`
	RequireNoise     bool   `toml:"require_noise"`
	LogLevel         string `toml:"log_level"`
	UseSimdSha256    bool   `toml:"use_simd_sha256"`
}

// EnsureExampleConfig writes config.toml.example under dir, overwriting any
// stale copy so it always reflects current defaults.
func EnsureExampleConfig(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	data, err := exampleConfigBytes()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "config.toml.example")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func exampleConfigBytes() ([]byte, error) {
	cfg := DefaultConfig()
	ex := exampleTOMLConfig{
		ListenAddr:       cfg.ListenAddr,
		PreferredVersion: cfg.PreferredVersion,
		SupportedFlags:   cfg.SupportedFlags,
		SuccessFlags:     cfg.SuccessFlags,
		AuthorityKey:     "YOUR_AUTHORITY_PUBLIC_KEY_BASE58",
		StaticKeyFile:    "sv2_static.key",
		CertValiditySec:  int64(cfg.CertValidity / time.Second),
		RequireNoise:     cfg.RequireNoise,
		LogLevel:         cfg.LogLevel,
		UseSimdSha256:    cfg.UseSimdSha256,
	}
	data, err := toml.Marshal(ex)
	if err != nil {
		return nil, fmt.Errorf("encode config example: %w", err)
	}
	header := []byte("# Generated example (copy to a real config and edit as needed)\n\n")
	return append(header, data...), nil
}

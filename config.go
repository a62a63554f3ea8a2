package sv2wire

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultCertValidity = 30 * 24 * time.Hour
	defaultLogLevel     = "error"
)

// Config holds the negotiation policy and authority material a host feeds
// into ServerHandler and the noise layer.
type Config struct {
	// ListenAddr is passed through to the I/O driver hosting the wire core.
	ListenAddr string `json:"listen_addr"`
	// PreferredVersion is the highest protocol version this endpoint speaks.
	PreferredVersion uint16 `json:"preferred_version"`
	// SupportedFlags is the mining setup flag set honored by the server.
	SupportedFlags uint32 `json:"supported_flags"`
	// SuccessFlags is advertised in SetupConnection.Success replies.
	SuccessFlags uint32 `json:"success_flags"`
	// AuthorityKey is the base58 Ed25519 authority public key clients pin.
	AuthorityKey string `json:"authority_key"`
	// StaticKeyFile points the driver at a persisted static key seed.
	// Empty means generate an ephemeral static key per run.
	StaticKeyFile string `json:"static_key_file"`
	// CertValidity bounds how long issued static-key certificates stay valid.
	CertValidity time.Duration `json:"-"`
	// RequireNoise refuses plaintext connections when true.
	RequireNoise bool `json:"require_noise"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level"`
	// UseSimdSha256 selects the SIMD digest for key fingerprinting.
	UseSimdSha256 bool `json:"use_simd_sha256"`
}

// fileConfig mirrors Config for the on-disk JSON form. Pointer fields
// distinguish "absent" from zero so file values only override what they set.
type fileConfig struct {
	ListenAddr       string  `json:"listen_addr"`
	PreferredVersion *uint16 `json:"preferred_version"`
	SupportedFlags   *uint32 `json:"supported_flags"`
	SuccessFlags     *uint32 `json:"success_flags"`
	AuthorityKey     string  `json:"authority_key"`
	StaticKeyFile    string  `json:"static_key_file"`
	CertValiditySec  *int64  `json:"cert_validity_seconds"`
	RequireNoise     *bool   `json:"require_noise"`
	LogLevel         string  `json:"log_level"`
	UseSimdSha256    *bool   `json:"use_simd_sha256"`
}

// DefaultConfig returns the built-in policy: current protocol version, every
// known mining flag supported, noise required.
func DefaultConfig() Config {
	return Config{
		ListenAddr:       ":3336",
		PreferredVersion: minProtocolVersion,
		SupportedFlags:   uint32(AllMiningSetupFlags()),
		SuccessFlags:     0,
		AuthorityKey:     "",
		CertValidity:     defaultCertValidity,
		RequireNoise:     true,
		LogLevel:         defaultLogLevel,
	}
}

// LoadConfig reads path as a JSON overlay on top of DefaultConfig. A missing
// file yields the defaults with no error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	fc, ok, err := loadConfigFile(path)
	if err != nil {
		return cfg, err
	}
	if ok {
		applyFileConfig(&cfg, *fc)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	SetLogLevel(cfg.LogLevel)
	UseSimdSha256(cfg.UseSimdSha256)
	return cfg, nil
}

func loadConfigFile(path string) (*fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	var fc fileConfig
	if err := fastJSONUnmarshal(data, &fc); err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, true, nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.ListenAddr != "" {
		cfg.ListenAddr = strings.TrimSpace(fc.ListenAddr)
	}
	if fc.PreferredVersion != nil {
		cfg.PreferredVersion = *fc.PreferredVersion
	}
	if fc.SupportedFlags != nil {
		cfg.SupportedFlags = *fc.SupportedFlags
	}
	if fc.SuccessFlags != nil {
		cfg.SuccessFlags = *fc.SuccessFlags
	}
	if fc.AuthorityKey != "" {
		cfg.AuthorityKey = strings.TrimSpace(fc.AuthorityKey)
	}
	if fc.StaticKeyFile != "" {
		cfg.StaticKeyFile = strings.TrimSpace(fc.StaticKeyFile)
	}
	if fc.CertValiditySec != nil && *fc.CertValiditySec > 0 {
		cfg.CertValidity = time.Duration(*fc.CertValiditySec) * time.Second
	}
	if fc.RequireNoise != nil {
		cfg.RequireNoise = *fc.RequireNoise
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(fc.LogLevel))
	}
	if fc.UseSimdSha256 != nil {
		cfg.UseSimdSha256 = *fc.UseSimdSha256
	}
}

// WriteConfigFile writes cfg to path atomically via a temp file rename.
func WriteConfigFile(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	sec := int64(cfg.CertValidity / time.Second)
	fc := fileConfig{
		ListenAddr:       cfg.ListenAddr,
		PreferredVersion: &cfg.PreferredVersion,
		SupportedFlags:   &cfg.SupportedFlags,
		SuccessFlags:     &cfg.SuccessFlags,
		AuthorityKey:     cfg.AuthorityKey,
		StaticKeyFile:    cfg.StaticKeyFile,
		CertValiditySec:  &sec,
		RequireNoise:     &cfg.RequireNoise,
		LogLevel:         cfg.LogLevel,
		UseSimdSha256:    &cfg.UseSimdSha256,
	}
	data, err := fastJSONMarshal(fc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// Validate checks policy invariants before the config is handed to handlers.
func (cfg Config) Validate() error {
	if cfg.PreferredVersion < minProtocolVersion {
		return fmt.Errorf("preferred_version must be >= %d, got %d", minProtocolVersion, cfg.PreferredVersion)
	}
	mask, err := setupFlagsMask(ProtocolMining)
	if err != nil {
		return err
	}
	if err := checkFlagsAgainstMask(cfg.SupportedFlags, mask); err != nil {
		return fmt.Errorf("supported_flags: %w", err)
	}
	successMask, err := setupSuccessFlagsMask(ProtocolMining)
	if err != nil {
		return err
	}
	if err := checkFlagsAgainstMask(cfg.SuccessFlags, successMask); err != nil {
		return fmt.Errorf("success_flags: %w", err)
	}
	if cfg.AuthorityKey != "" {
		if _, err := ParseAuthorityPublicKey(cfg.AuthorityKey); err != nil {
			return fmt.Errorf("authority_key: %w", err)
		}
	}
	if cfg.CertValidity <= 0 {
		return fmt.Errorf("cert_validity_seconds must be > 0")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}

// NewServerHandlerFromConfig builds a handler from validated config.
func NewServerHandlerFromConfig(cfg Config) *ServerHandler {
	h := NewServerHandler(MiningSetupFlags(cfg.SupportedFlags), MiningSetupSuccessFlags(cfg.SuccessFlags))
	h.PreferredVersion = cfg.PreferredVersion
	return h
}

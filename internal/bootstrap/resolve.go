package bootstrap

import "strconv"

// DefaultsFrom merges built-in defaults with whatever a previous run saved.
// The result is the final configuration in non-interactive mode and the
// prefilled defaults the wizard offers in interactive mode. Saved values that
// fail to parse fall back silently; a half-corrupt config file must never
// block a run.
func DefaultsFrom(saved map[string]string) Config {
	cfg := Config{
		Domain:         "localhost",
		InstallDir:     defaultInstallDir,
		TLSMode:        TLSOff,
		HTTPPort:       defaultHTTPPort,
		BackupKeepDays: defaultKeepDays,
		InfisicalTag:   defaultInfisicalTag,
		PostgresTag:    defaultPostgresTag,
		RedisTag:       defaultRedisTag,
	}

	if v := saved[keyDomain]; v != "" {
		cfg.Domain = v
	}
	if v := saved[keyInstall]; v != "" {
		cfg.InstallDir = v
	}
	if v := saved[keyTLSMode]; v != "" {
		if mode, err := ParseTLSMode(v); err == nil {
			cfg.TLSMode = mode
		}
	}
	if v := saved[keyHTTPPort]; v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			cfg.HTTPPort = port
		}
	}
	if v := saved[keyEmail]; v != "" {
		cfg.Email = v
	}
	if v := saved[keyCFToken]; v != "" {
		cfg.CloudflareToken = v
	}
	if v := saved[keyKeepDays]; v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.BackupKeepDays = days
		}
	}
	if v := saved[keyAppTag]; v != "" {
		cfg.InfisicalTag = v
	}
	if v := saved[keyPgTag]; v != "" {
		cfg.PostgresTag = v
	}
	if v := saved[keyRedisTag]; v != "" {
		cfg.RedisTag = v
	}
	return cfg
}

// Validate enforces the mode-dependent field requirements before anything is
// written to disk.
func Validate(cfg Config) error {
	if cfg.Domain == "" {
		return &ValidationError{Field: "domain", Reason: "must not be empty"}
	}
	if cfg.InstallDir == "" {
		return &ValidationError{Field: "install dir", Reason: "must not be empty"}
	}
	if _, err := ParseTLSMode(string(cfg.TLSMode)); err != nil {
		return &ValidationError{Field: "tls mode", Reason: err.Error()}
	}
	if cfg.TLSMode == TLSOff {
		if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
			return &ValidationError{Field: "http port", Reason: "must be between 1 and 65535"}
		}
		return nil
	}
	if cfg.Email == "" {
		return &ValidationError{Field: "email", Reason: "required when tls mode is " + string(cfg.TLSMode)}
	}
	if cfg.TLSMode == TLSCloudflare && cfg.CloudflareToken == "" {
		return &ValidationError{Field: "cloudflare token", Reason: "required when tls mode is dns-cloudflare"}
	}
	return nil
}

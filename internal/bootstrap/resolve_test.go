package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsFromEmpty(t *testing.T) {
	cfg := DefaultsFrom(map[string]string{})

	assert.Equal(t, "localhost", cfg.Domain)
	assert.Equal(t, defaultInstallDir, cfg.InstallDir)
	assert.Equal(t, TLSOff, cfg.TLSMode)
	assert.Equal(t, defaultHTTPPort, cfg.HTTPPort)
	assert.Equal(t, defaultKeepDays, cfg.BackupKeepDays)
	assert.Equal(t, defaultInfisicalTag, cfg.InfisicalTag)
}

func TestDefaultsFromSavedWins(t *testing.T) {
	cfg := DefaultsFrom(map[string]string{
		"DOMAIN":           "vault.example.com",
		"TLS_MODE":         "http01",
		"LE_EMAIL":         "ops@example.com",
		"BACKUP_KEEP_DAYS": "30",
	})

	assert.Equal(t, "vault.example.com", cfg.Domain)
	assert.Equal(t, TLSHTTP01, cfg.TLSMode)
	assert.Equal(t, "ops@example.com", cfg.Email)
	assert.Equal(t, 30, cfg.BackupKeepDays)
	// Untouched fields keep builtin defaults.
	assert.Equal(t, defaultInstallDir, cfg.InstallDir)
}

func TestDefaultsFromGarbageFallsBack(t *testing.T) {
	cfg := DefaultsFrom(map[string]string{
		"TLS_MODE":         "sideways",
		"HTTP_PORT":        "not-a-port",
		"BACKUP_KEEP_DAYS": "-3",
	})

	assert.Equal(t, TLSOff, cfg.TLSMode)
	assert.Equal(t, defaultHTTPPort, cfg.HTTPPort)
	assert.Equal(t, defaultKeepDays, cfg.BackupKeepDays)
}

func TestValidateRequiresEmailForTLS(t *testing.T) {
	for _, mode := range []TLSMode{TLSHTTP01, TLSCloudflare} {
		cfg := DefaultsFrom(nil)
		cfg.TLSMode = mode
		cfg.Email = ""
		cfg.CloudflareToken = "tok"

		err := Validate(cfg)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "mode %s", mode)
		assert.Equal(t, "email", verr.Field)
	}
}

func TestValidateRequiresTokenForDNS(t *testing.T) {
	cfg := DefaultsFrom(nil)
	cfg.TLSMode = TLSCloudflare
	cfg.Email = "ops@example.com"
	cfg.CloudflareToken = ""

	err := Validate(cfg)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cloudflare token", verr.Field)
}

func TestValidateAccepts(t *testing.T) {
	off := DefaultsFrom(nil)
	assert.NoError(t, Validate(off))

	tls := DefaultsFrom(nil)
	tls.Domain = "vault.example.com"
	tls.TLSMode = TLSHTTP01
	tls.Email = "ops@example.com"
	assert.NoError(t, Validate(tls))
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultsFrom(nil)
	cfg.HTTPPort = 0

	var verr *ValidationError
	require.ErrorAs(t, Validate(cfg), &verr)
	assert.Equal(t, "http port", verr.Field)
}

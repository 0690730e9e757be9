package bootstrap

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileMissing(t *testing.T) {
	fsys := memfs.New()

	vars := LoadConfigFile(fsys, "/etc/bootstrap-infisical.conf")

	assert.Empty(t, vars)
}

func TestLoadConfigFileParsesAndIgnoresNoise(t *testing.T) {
	fsys := memfs.New()
	content := "# a comment\n" +
		"DOMAIN=vault.example.com\n" +
		"\n" +
		"not a key value line\n" +
		"SOME_FUTURE_KEY=whatever\n" +
		"HTTP_PORT=9090\n"
	require.NoError(t, util.WriteFile(fsys, "/etc/bootstrap-infisical.conf", []byte(content), 0o600))

	vars := LoadConfigFile(fsys, "/etc/bootstrap-infisical.conf")

	assert.Equal(t, "vault.example.com", vars["DOMAIN"])
	assert.Equal(t, "9090", vars["HTTP_PORT"])
	// Unknown keys survive so newer files work with older binaries.
	assert.Equal(t, "whatever", vars["SOME_FUTURE_KEY"])
}

func TestLoadConfigFileLegacyTLSBool(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"true becomes http01", "USE_TLS=true\n", "http01"},
		{"false becomes off", "USE_TLS=false\n", "off"},
		{"modern key wins", "USE_TLS=true\nTLS_MODE=dns-cloudflare\n", "dns-cloudflare"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := memfs.New()
			require.NoError(t, util.WriteFile(fsys, "/conf", []byte(tc.content), 0o600))

			vars := LoadConfigFile(fsys, "/conf")

			assert.Equal(t, tc.want, vars["TLS_MODE"])
		})
	}
}

func TestSaveConfigFileRoundTrip(t *testing.T) {
	fsys := memfs.New()
	cfg := Config{
		Domain:          "vault.example.com",
		InstallDir:      "/opt/infisical",
		TLSMode:         TLSCloudflare,
		HTTPPort:        8080,
		Email:           "ops@example.com",
		CloudflareToken: "cf-token",
		BackupKeepDays:  14,
		InfisicalTag:    "v0.93.1-postgres",
		PostgresTag:     "14-alpine",
		RedisTag:        "7-alpine",
	}

	require.NoError(t, SaveConfigFile(fsys, "/etc/bootstrap-infisical.conf", cfg))
	loaded := DefaultsFrom(LoadConfigFile(fsys, "/etc/bootstrap-infisical.conf"))

	assert.Equal(t, cfg, loaded)
}

func TestSiteURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"tls on", Config{Domain: "vault.example.com", TLSMode: TLSHTTP01}, "https://vault.example.com"},
		{"tls off port 80", Config{Domain: "vault.example.com", TLSMode: TLSOff, HTTPPort: 80}, "http://vault.example.com"},
		{"tls off custom port", Config{Domain: "vault.example.com", TLSMode: TLSOff, HTTPPort: 8080}, "http://vault.example.com:8080"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.SiteURL())
		})
	}
}

func TestParseTLSMode(t *testing.T) {
	for _, valid := range []string{"off", "http01", "dns-cloudflare"} {
		mode, err := ParseTLSMode(valid)
		require.NoError(t, err)
		assert.Equal(t, TLSMode(valid), mode)
	}

	_, err := ParseTLSMode("letsencrypt")
	assert.Error(t, err)
}

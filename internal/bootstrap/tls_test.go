package bootstrap

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCA struct {
	fsys        billy.Filesystem
	certRoot    string
	failWebroot error
	failDNS     error
	produce     bool

	webrootCalls int
	dnsCalls     int
	lastCreds    string
}

func (f *fakeCA) ObtainWebroot(domain, email string) error {
	f.webrootCalls++
	if f.failWebroot != nil {
		return f.failWebroot
	}
	if f.produce {
		return util.WriteFile(f.fsys, filepath.Join(f.certRoot, domain, "fullchain.pem"), []byte("cert"), 0o644)
	}
	return nil
}

func (f *fakeCA) ObtainDNS(domain, email, credentialsFile string) error {
	f.dnsCalls++
	f.lastCreds = credentialsFile
	if f.failDNS != nil {
		return f.failDNS
	}
	if f.produce {
		return util.WriteFile(f.fsys, filepath.Join(f.certRoot, domain, "fullchain.pem"), []byte("cert"), 0o644)
	}
	return nil
}

type fakeProxy struct {
	validateErr error
	validates   int
	reloads     int
}

func (f *fakeProxy) Validate() error {
	f.validates++
	return f.validateErr
}

func (f *fakeProxy) Reload() error {
	f.reloads++
	return nil
}

func newTestProvisioner(fsys billy.Filesystem, ca CertificateAuthority, proxy ProxyController) *Provisioner {
	p := NewProvisioner(fsys, ca, proxy)
	p.CertRoot = "/certs"
	p.ConfPath = "/nginx/infisical.conf"
	p.Webroot = "/webroot"
	return p
}

func tlsTestConfig(mode TLSMode) Config {
	cfg := DefaultsFrom(nil)
	cfg.Domain = "vault.example.com"
	cfg.TLSMode = mode
	cfg.Email = "ops@example.com"
	cfg.CloudflareToken = "cf-token"
	return cfg
}

func TestEnsureDisabled(t *testing.T) {
	fsys := memfs.New()
	ca := &fakeCA{fsys: fsys, certRoot: "/certs"}
	proxy := &fakeProxy{}

	state, err := newTestProvisioner(fsys, ca, proxy).Ensure(tlsTestConfig(TLSOff))

	require.NoError(t, err)
	assert.Equal(t, CertDisabled, state)
	assert.Zero(t, ca.webrootCalls)
	assert.Zero(t, proxy.reloads)
}

func TestEnsureExistingCertSkipsAcquisition(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/certs/vault.example.com/fullchain.pem", []byte("cert"), 0o644))
	ca := &fakeCA{fsys: fsys, certRoot: "/certs"}
	proxy := &fakeProxy{}
	p := newTestProvisioner(fsys, ca, proxy)

	state, err := p.Ensure(tlsTestConfig(TLSHTTP01))

	require.NoError(t, err)
	assert.Equal(t, CertProvisioned, state)
	assert.Zero(t, ca.webrootCalls)
	assert.Zero(t, ca.dnsCalls)

	// The final config is still rewritten and activated every run.
	conf, err := util.ReadFile(fsys, "/nginx/infisical.conf")
	require.NoError(t, err)
	assert.Contains(t, string(conf), "listen 443 ssl")
	assert.Equal(t, 1, proxy.validates)
	assert.Equal(t, 1, proxy.reloads)
}

func TestEnsureHTTP01FirstRun(t *testing.T) {
	fsys := memfs.New()
	ca := &fakeCA{fsys: fsys, certRoot: "/certs", produce: true}
	proxy := &fakeProxy{}
	p := newTestProvisioner(fsys, ca, proxy)

	state, err := p.Ensure(tlsTestConfig(TLSHTTP01))

	require.NoError(t, err)
	assert.Equal(t, CertProvisioned, state)
	assert.Equal(t, 1, ca.webrootCalls)
	assert.Zero(t, ca.dnsCalls)
	// Challenge vhost reloaded before the obtain call, final vhost after.
	assert.Equal(t, 2, proxy.validates)
	assert.Equal(t, 2, proxy.reloads)

	conf, err := util.ReadFile(fsys, "/nginx/infisical.conf")
	require.NoError(t, err)
	text := string(conf)
	assert.Contains(t, text, "proxy_pass http://127.0.0.1:8080")
	assert.Contains(t, text, "return 301 https://$host$request_uri")
	assert.Contains(t, text, `proxy_set_header Connection "upgrade"`)
}

func TestEnsureDNSWritesCredentials(t *testing.T) {
	fsys := memfs.New()
	ca := &fakeCA{fsys: fsys, certRoot: "/certs", produce: true}
	proxy := &fakeProxy{}
	p := newTestProvisioner(fsys, ca, proxy)
	cfg := tlsTestConfig(TLSCloudflare)

	state, err := p.Ensure(cfg)

	require.NoError(t, err)
	assert.Equal(t, CertProvisioned, state)
	assert.Equal(t, 1, ca.dnsCalls)
	assert.Zero(t, ca.webrootCalls)
	assert.Equal(t, cfg.CredentialsPath(), ca.lastCreds)
	// DNS challenge needs no temporary vhost; only the final one.
	assert.Equal(t, 1, proxy.reloads)

	creds, err := util.ReadFile(fsys, cfg.CredentialsPath())
	require.NoError(t, err)
	assert.Equal(t, "dns_cloudflare_api_token = cf-token\n", string(creds))
}

func TestEnsureObtainFailure(t *testing.T) {
	fsys := memfs.New()
	ca := &fakeCA{fsys: fsys, certRoot: "/certs", failWebroot: errors.New("challenge rejected")}
	proxy := &fakeProxy{}
	p := newTestProvisioner(fsys, ca, proxy)

	state, err := p.Ensure(tlsTestConfig(TLSHTTP01))

	assert.Equal(t, CertFailed, state)
	var perr *ProvisioningError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Hint, "port 80")
}

func TestEnsureCleanExitNoCert(t *testing.T) {
	fsys := memfs.New()
	ca := &fakeCA{fsys: fsys, certRoot: "/certs", produce: false}
	proxy := &fakeProxy{}
	p := newTestProvisioner(fsys, ca, proxy)

	state, err := p.Ensure(tlsTestConfig(TLSHTTP01))

	assert.Equal(t, CertFailed, state)
	var perr *ProvisioningError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Hint, "DNS")
}

func TestEnsureValidationFailureIsNotProvisioningError(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/certs/vault.example.com/fullchain.pem", []byte("cert"), 0o644))
	ca := &fakeCA{fsys: fsys, certRoot: "/certs"}
	proxy := &fakeProxy{validateErr: errors.New("nginx: [emerg]")}
	p := newTestProvisioner(fsys, ca, proxy)

	_, err := p.Ensure(tlsTestConfig(TLSHTTP01))

	require.Error(t, err)
	var perr *ProvisioningError
	assert.False(t, errors.As(err, &perr))
	// A config that fails validation must never be reloaded into service.
	assert.Zero(t, proxy.reloads)
}

func TestChallengeVhost(t *testing.T) {
	conf, err := ChallengeVhost(tlsTestConfig(TLSHTTP01))
	require.NoError(t, err)

	text := string(conf)
	assert.Contains(t, text, "server_name vault.example.com")
	assert.Contains(t, text, "/.well-known/acme-challenge/")
	assert.NotContains(t, text, "443")
}

func TestCertStateString(t *testing.T) {
	assert.Equal(t, "disabled", CertDisabled.String())
	assert.Equal(t, "awaiting-certificate", CertAwaiting.String())
	assert.Equal(t, "provisioned", CertProvisioned.String())
	assert.Equal(t, "failed", CertFailed.String())
}

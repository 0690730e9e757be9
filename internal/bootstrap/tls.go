package bootstrap

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// CertState is where the provisioner ended up for this run.
type CertState int

const (
	CertDisabled CertState = iota
	CertAwaiting
	CertProvisioned
	CertFailed
)

func (s CertState) String() string {
	switch s {
	case CertDisabled:
		return "disabled"
	case CertAwaiting:
		return "awaiting-certificate"
	case CertProvisioned:
		return "provisioned"
	case CertFailed:
		return "failed"
	}
	return "unknown"
}

// CertificateAuthority obtains a certificate for a domain. The real
// implementation shells out to certbot; tests substitute a fake.
type CertificateAuthority interface {
	ObtainWebroot(domain, email string) error
	ObtainDNS(domain, email, credentialsFile string) error
}

// ProxyController validates and reloads the reverse proxy. The real
// implementation drives the nginx binary and systemctl.
type ProxyController interface {
	Validate() error
	Reload() error
}

// Provisioner ensures a usable certificate exists for the configured domain
// and that the proxy serves it. The certificate file on disk is the only
// state: if it is already there, no acquisition happens at all, which is what
// keeps repeated runs clear of CA rate limits.
type Provisioner struct {
	FS    billy.Filesystem
	CA    CertificateAuthority
	Proxy ProxyController

	// Overridable for tests; zero values mean the host defaults.
	CertRoot string
	ConfPath string
	Webroot  string
}

func NewProvisioner(fsys billy.Filesystem, ca CertificateAuthority, proxy ProxyController) *Provisioner {
	return &Provisioner{
		FS:       fsys,
		CA:       ca,
		Proxy:    proxy,
		CertRoot: certLiveRoot,
		ConfPath: nginxConfPath,
		Webroot:  webrootDir,
	}
}

// CertificateExists is the single predicate deciding whether acquisition is
// needed. Presence of the fullchain file is the whole truth.
func (p *Provisioner) CertificateExists(domain string) bool {
	return fileExists(p.FS, filepath.Join(p.CertRoot, domain, "fullchain.pem"))
}

// Ensure drives the state machine to completion for one run.
func (p *Provisioner) Ensure(cfg Config) (CertState, error) {
	if cfg.TLSMode == TLSOff {
		return CertDisabled, nil
	}

	if !p.CertificateExists(cfg.Domain) {
		if err := p.acquire(cfg); err != nil {
			return CertFailed, err
		}
		if !p.CertificateExists(cfg.Domain) {
			return CertFailed, &ProvisioningError{
				Step: "obtain certificate for " + cfg.Domain,
				Hint: "certbot exited cleanly but produced no certificate; check that DNS for the domain points at this host and that inbound port 80 is not firewalled",
			}
		}
	}

	// Write the final config unconditionally and validate before reloading:
	// a broken config must never replace a working one without the run
	// failing in the operator's face.
	conf, err := TLSVhost(cfg)
	if err != nil {
		return CertProvisioned, fmt.Errorf("render proxy config: %w", err)
	}
	if err := writeFile(p.FS, p.ConfPath, conf, 0o644); err != nil {
		return CertProvisioned, fmt.Errorf("write proxy config: %w", err)
	}
	if err := p.Proxy.Validate(); err != nil {
		return CertProvisioned, fmt.Errorf("proxy config validation failed, not reloading: %w", err)
	}
	if err := p.Proxy.Reload(); err != nil {
		return CertProvisioned, fmt.Errorf("proxy reload: %w", err)
	}
	return CertProvisioned, nil
}

func (p *Provisioner) acquire(cfg Config) error {
	switch cfg.TLSMode {
	case TLSHTTP01:
		// The CA has to reach us on port 80 before any certificate exists,
		// so a challenge-only vhost goes live first.
		if err := ensureDir(p.FS, p.Webroot, 0o755); err != nil {
			return err
		}
		conf, err := ChallengeVhost(cfg)
		if err != nil {
			return err
		}
		if err := writeFile(p.FS, p.ConfPath, conf, 0o644); err != nil {
			return err
		}
		if err := p.Proxy.Validate(); err != nil {
			return fmt.Errorf("challenge proxy config validation: %w", err)
		}
		if err := p.Proxy.Reload(); err != nil {
			return fmt.Errorf("proxy reload: %w", err)
		}
		if err := p.CA.ObtainWebroot(cfg.Domain, cfg.Email); err != nil {
			return &ProvisioningError{
				Step: "obtain certificate for " + cfg.Domain,
				Hint: "the HTTP-01 challenge needs DNS pointing at this host and inbound port 80 reachable from the internet",
				Err:  err,
			}
		}
	case TLSCloudflare:
		creds := fmt.Sprintf("dns_cloudflare_api_token = %s\n", cfg.CloudflareToken)
		if err := writeFileOwnerOnly(p.FS, cfg.CredentialsPath(), []byte(creds)); err != nil {
			return err
		}
		if err := p.CA.ObtainDNS(cfg.Domain, cfg.Email, cfg.CredentialsPath()); err != nil {
			return &ProvisioningError{
				Step: "obtain certificate for " + cfg.Domain,
				Hint: "the DNS-01 challenge needs a Cloudflare token with Zone:DNS:Edit on the domain's zone",
				Err:  err,
			}
		}
	}
	return nil
}

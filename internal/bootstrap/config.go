package bootstrap

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
)

const (
	defaultConfigPath = "/etc/bootstrap-infisical.conf"
	defaultInstallDir = "/opt/infisical"
	defaultHTTPPort   = 8080
	defaultKeepDays   = 7

	defaultInfisicalTag = "v0.93.1-postgres"
	defaultPostgresTag  = "14-alpine"
	defaultRedisTag     = "7-alpine"

	// The backend always listens here inside the container; the host side of
	// the binding is what varies with the TLS mode.
	backendPort = 8080
)

// TLSMode selects how, and whether, the deployment terminates TLS.
type TLSMode string

const (
	TLSOff        TLSMode = "off"
	TLSHTTP01     TLSMode = "http01"
	TLSCloudflare TLSMode = "dns-cloudflare"
)

func ParseTLSMode(s string) (TLSMode, error) {
	switch TLSMode(strings.TrimSpace(s)) {
	case TLSOff:
		return TLSOff, nil
	case TLSHTTP01:
		return TLSHTTP01, nil
	case TLSCloudflare:
		return TLSCloudflare, nil
	}
	return "", fmt.Errorf("tls mode must be one of: off, http01, dns-cloudflare (got %q)", s)
}

// Config is the resolved configuration for one run. It is built once, before
// anything is written, and never mutated afterwards.
type Config struct {
	Domain          string
	InstallDir      string
	TLSMode         TLSMode
	HTTPPort        int
	Email           string
	CloudflareToken string
	BackupKeepDays  int

	InfisicalTag string
	PostgresTag  string
	RedisTag     string
}

// SiteURL derives the public URL the deployment will answer on.
func (c Config) SiteURL() string {
	if c.TLSMode != TLSOff {
		return "https://" + c.Domain
	}
	if c.HTTPPort == 80 {
		return "http://" + c.Domain
	}
	return fmt.Sprintf("http://%s:%d", c.Domain, c.HTTPPort)
}

func (c Config) EnvPath() string {
	return filepath.Join(c.InstallDir, ".env")
}

func (c Config) ComposePath() string {
	return filepath.Join(c.InstallDir, "docker-compose.yml")
}

func (c Config) CredentialsPath() string {
	return filepath.Join(c.InstallDir, "cloudflare.ini")
}

func (c Config) BackupDir() string {
	return filepath.Join(c.InstallDir, "backups")
}

// Persisted config file keys. The file is line-oriented KEY=value, same shape
// as the .env the stack consumes, so the two stay greppable with one habit.
const (
	keyDomain    = "DOMAIN"
	keyInstall   = "INSTALL_DIR"
	keyTLSMode   = "TLS_MODE"
	keyHTTPPort  = "HTTP_PORT"
	keyEmail     = "LE_EMAIL"
	keyCFToken   = "CF_DNS_API_TOKEN"
	keyKeepDays  = "BACKUP_KEEP_DAYS"
	keyAppTag    = "INFISICAL_VERSION"
	keyPgTag     = "POSTGRES_VERSION"
	keyRedisTag  = "REDIS_VERSION"
	keyLegacyTLS = "USE_TLS"
)

// LoadConfigFile reads a saved KEY=value config file. A missing, unreadable
// or malformed file yields an empty map: saved config can only supply
// defaults, never abort a run. Unknown keys are kept so newer files survive
// older binaries.
func LoadConfigFile(fsys billy.Filesystem, path string) map[string]string {
	file, err := fsys.Open(path)
	if err != nil {
		return map[string]string{}
	}
	defer file.Close()

	vars := map[string]string{}
	s := bufio.NewScanner(file)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		k := strings.TrimSpace(parts[0])
		v := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		vars[k] = v
	}
	if err := s.Err(); err != nil {
		return map[string]string{}
	}

	// Files written before DNS support carried a boolean instead of a mode.
	if _, ok := vars[keyTLSMode]; !ok {
		if legacy, ok := vars[keyLegacyTLS]; ok {
			if parsed, err := strconv.ParseBool(legacy); err == nil {
				if parsed {
					vars[keyTLSMode] = string(TLSHTTP01)
				} else {
					vars[keyTLSMode] = string(TLSOff)
				}
			}
		}
	}
	return vars
}

// SaveConfigFile rewrites the config file from scratch, owner-only.
func SaveConfigFile(fsys billy.Filesystem, path string, cfg Config) error {
	var b strings.Builder
	b.WriteString("# Written by bootstrap-infisical. Safe to edit between runs.\n")
	write := func(k, v string) {
		b.WriteString(k + "=" + v + "\n")
	}
	write(keyDomain, cfg.Domain)
	write(keyInstall, cfg.InstallDir)
	write(keyTLSMode, string(cfg.TLSMode))
	write(keyHTTPPort, strconv.Itoa(cfg.HTTPPort))
	write(keyEmail, cfg.Email)
	write(keyCFToken, cfg.CloudflareToken)
	write(keyKeepDays, strconv.Itoa(cfg.BackupKeepDays))
	write(keyAppTag, cfg.InfisicalTag)
	write(keyPgTag, cfg.PostgresTag)
	write(keyRedisTag, cfg.RedisTag)
	return writeFileOwnerOnly(fsys, path, []byte(b.String()))
}

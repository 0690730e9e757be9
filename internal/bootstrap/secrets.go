package bootstrap

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// SecretSet is the minimal set of random values the stack needs. Sizes and
// encodings are frozen: the at-rest key in particular encrypts everything the
// backend stores, so a value that survives in the .env file is reused
// verbatim forever.
type SecretSet struct {
	EncryptionKey string // 16 bytes, hex
	AuthSecret    string // 32 bytes, base64
	DBPassword    string // 16 bytes, hex
}

const (
	keyEncryption = "ENCRYPTION_KEY"
	keyAuthSecret = "AUTH_SECRET"
	keyDBPassword = "POSTGRES_PASSWORD"

	dbUser = "infisical"
	dbName = "infisical"
)

// ResolveSecrets reuses every non-empty secret present in the existing .env
// and mints the rest. A missing or empty value always counts as absent.
func ResolveSecrets(fsys billy.Filesystem, path string) (SecretSet, error) {
	existed := fileExists(fsys, path)
	existing := LoadConfigFile(fsys, path)

	s := SecretSet{
		EncryptionKey: existing[keyEncryption],
		AuthSecret:    existing[keyAuthSecret],
		DBPassword:    existing[keyDBPassword],
	}

	var err error
	if s.EncryptionKey == "" {
		if existed {
			// The key that encrypted existing data is gone. There is no way
			// to recover it; say so loudly instead of silently rotating.
			fmt.Printf("warning: %s had no %s; generating a new one. Any secrets encrypted with the old key are permanently unreadable.\n", path, keyEncryption)
		}
		if s.EncryptionKey, err = randomHex(16); err != nil {
			return SecretSet{}, err
		}
	}
	if s.AuthSecret == "" {
		if s.AuthSecret, err = randomBase64(32); err != nil {
			return SecretSet{}, err
		}
	}
	if s.DBPassword == "" {
		if s.DBPassword, err = randomHex(16); err != nil {
			return SecretSet{}, err
		}
	}
	return s, nil
}

// WriteEnvFile rewrites the full .env every run: reused and fresh secrets
// plus the derived connection values, in a fixed key order so downstream
// grep-style reads keep working.
func WriteEnvFile(fsys billy.Filesystem, path string, cfg Config, s SecretSet) error {
	var b strings.Builder
	b.WriteString("# Written by bootstrap-infisical. Secrets are preserved across runs.\n")
	b.WriteString(keyEncryption + "=" + s.EncryptionKey + "\n")
	b.WriteString(keyAuthSecret + "=" + s.AuthSecret + "\n")
	b.WriteString(keyDBPassword + "=" + s.DBPassword + "\n")
	b.WriteString("POSTGRES_USER=" + dbUser + "\n")
	b.WriteString("POSTGRES_DB=" + dbName + "\n")
	b.WriteString(fmt.Sprintf("DB_CONNECTION_URI=postgres://%s:%s@db:5432/%s\n", dbUser, s.DBPassword, dbName))
	b.WriteString("REDIS_URL=redis://redis:6379\n")
	b.WriteString("SITE_URL=" + cfg.SiteURL() + "\n")
	return writeFileOwnerOnly(fsys, path, []byte(b.String()))
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random source: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func randomBase64(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random source: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

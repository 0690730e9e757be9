package bootstrap

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"
)

func runCmdStream(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// CertbotClient obtains certificates by shelling out to certbot.
type CertbotClient struct{}

func (CertbotClient) ObtainWebroot(domain, email string) error {
	return runCmdStream("certbot", "certonly",
		"--webroot", "--webroot-path", webrootDir,
		"-d", domain,
		"--email", email,
		"--agree-tos", "--non-interactive", "--no-eff-email")
}

func (CertbotClient) ObtainDNS(domain, email, credentialsFile string) error {
	return runCmdStream("certbot", "certonly",
		"--dns-cloudflare", "--dns-cloudflare-credentials", credentialsFile,
		"-d", domain,
		"--email", email,
		"--agree-tos", "--non-interactive", "--no-eff-email")
}

// NginxController validates and reloads the host nginx.
type NginxController struct{}

func (NginxController) Validate() error {
	return runCmdStream("nginx", "-t")
}

func (NginxController) Reload() error {
	return runCmdStream("systemctl", "reload", "nginx")
}

// PackageInstaller puts the OS dependencies in place.
type PackageInstaller interface {
	EnsurePackages(mode TLSMode) error
}

// AptInstaller installs via apt-get. Re-running is a no-op at the package
// manager level, which keeps this step idempotent for free.
type AptInstaller struct{}

func (AptInstaller) EnsurePackages(mode TLSMode) error {
	if err := runCmdStream("apt-get", "update", "-q"); err != nil {
		return err
	}
	pkgs := []string{"docker.io", "docker-compose-v2", "ca-certificates", "curl"}
	if mode != TLSOff {
		pkgs = append(pkgs, "nginx", "certbot")
	}
	if mode == TLSCloudflare {
		pkgs = append(pkgs, "python3-certbot-dns-cloudflare")
	}
	args := append([]string{"install", "-y", "-q"}, pkgs...)
	return runCmdStream("apt-get", args...)
}

// ContainerRuntime brings the rendered stack up.
type ContainerRuntime interface {
	Up(composePath, envPath string) error
}

// DockerCompose shells out to the docker compose plugin.
type DockerCompose struct{}

func (DockerCompose) Up(composePath, envPath string) error {
	return runCmdStream("docker",
		"compose",
		"-f", composePath,
		"--env-file", envPath,
		"-p", "infisical",
		"up", "-d", "--remove-orphans")
}

// CheckEnvironment runs before anything is written: the tool needs root to
// install packages and write under /etc, and a network path to the package
// mirrors and the CA.
func CheckEnvironment() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("must run as root (package install and /etc writes); try sudo")
	}
	conn, err := net.DialTimeout("tcp", "deb.debian.org:443", 5*time.Second)
	if err != nil {
		return fmt.Errorf("no network reachability: %w", err)
	}
	conn.Close()
	return nil
}

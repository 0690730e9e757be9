package bootstrap

import (
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Runtime bundles the collaborators a run needs. Production wiring comes
// from DefaultRuntime; tests swap in fakes.
type Runtime struct {
	FS       billy.Filesystem
	CA       CertificateAuthority
	Proxy    ProxyController
	Packages PackageInstaller
	Compose  ContainerRuntime

	ConfigPath string
	Preflight  func() error
	Probe      func(url string) bool

	// Provisioner path overrides, empty in production.
	CertRoot  string
	ProxyConf string
	Webroot   string
}

// Options is what the CLI surface decides.
type Options struct {
	NonInteractive bool
	// Prompt runs the interactive wizard over the computed defaults. It
	// reports false when the operator declines the confirmation.
	Prompt func(defaults Config) (Config, bool, error)
}

func DefaultRuntime() Runtime {
	return Runtime{
		FS:         osfs.New("/"),
		CA:         CertbotClient{},
		Proxy:      NginxController{},
		Packages:   AptInstaller{},
		Compose:    DockerCompose{},
		ConfigPath: defaultConfigPath,
		Preflight:  CheckEnvironment,
		Probe:      ProbeHealth,
	}
}

// Run performs one idempotent pass: resolve config, resolve secrets, ensure
// the certificate, rewrite the deployment files, bring the stack up, probe.
// Every step either converges or fails the run; nothing is rolled back
// because the next successful run regenerates all of it.
func Run(rt Runtime, opts Options) error {
	if rt.Preflight != nil {
		if err := rt.Preflight(); err != nil {
			return err
		}
	}

	saved := LoadConfigFile(rt.FS, rt.ConfigPath)
	cfg := DefaultsFrom(saved)

	if !opts.NonInteractive {
		if opts.Prompt == nil {
			return errors.New("interactive mode needs a prompt implementation")
		}
		answered, confirmed, err := opts.Prompt(cfg)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("aborted, nothing written")
			return ErrAborted
		}
		cfg = answered
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	if err := rt.Packages.EnsurePackages(cfg.TLSMode); err != nil {
		return err
	}

	if err := ensureDir(rt.FS, cfg.InstallDir, 0o750); err != nil {
		return err
	}

	secrets, err := ResolveSecrets(rt.FS, cfg.EnvPath())
	if err != nil {
		return err
	}
	if err := WriteEnvFile(rt.FS, cfg.EnvPath(), cfg, secrets); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", cfg.EnvPath())

	prov := NewProvisioner(rt.FS, rt.CA, rt.Proxy)
	if rt.CertRoot != "" {
		prov.CertRoot = rt.CertRoot
	}
	if rt.ProxyConf != "" {
		prov.ConfPath = rt.ProxyConf
	}
	if rt.Webroot != "" {
		prov.Webroot = rt.Webroot
	}
	state, err := prov.Ensure(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("certificate state: %s\n", state)

	compose, err := RenderCompose(cfg)
	if err != nil {
		return err
	}
	if err := writeFile(rt.FS, cfg.ComposePath(), compose, 0o640); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", cfg.ComposePath())

	if err := SaveConfigFile(rt.FS, rt.ConfigPath, cfg); err != nil {
		return err
	}

	if err := rt.Compose.Up(cfg.ComposePath(), cfg.EnvPath()); err != nil {
		return err
	}

	if rt.Probe != nil {
		if rt.Probe(StatusURL(cfg)) {
			fmt.Println("backend is answering")
		} else {
			fmt.Println("warning: backend not answering yet; containers may still be starting")
		}
	}

	if err := InstallBackupCron(rt.FS, cfg); err != nil {
		return err
	}

	fmt.Printf("done: %s\n", cfg.SiteURL())
	return nil
}

package bootstrap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type composeDocument struct {
	Services map[string]composeService `yaml:"services"`
	Networks map[string]composeNetwork `yaml:"networks"`
	Volumes  map[string]composeVolume  `yaml:"volumes"`
}

type composeService struct {
	Image       string               `yaml:"image"`
	Restart     string               `yaml:"restart"`
	Ports       []string             `yaml:"ports,omitempty"`
	EnvFile     []string             `yaml:"env_file,omitempty"`
	DependsOn   map[string]dependsOn `yaml:"depends_on,omitempty"`
	Volumes     []string             `yaml:"volumes,omitempty"`
	Networks    []string             `yaml:"networks"`
	Healthcheck *composeHealthcheck  `yaml:"healthcheck,omitempty"`
}

type dependsOn struct {
	Condition string `yaml:"condition"`
}

type composeHealthcheck struct {
	Test     []string `yaml:"test"`
	Interval string   `yaml:"interval"`
	Timeout  string   `yaml:"timeout"`
	Retries  int      `yaml:"retries"`
}

type composeNetwork struct {
	Driver string `yaml:"driver"`
}

type composeVolume struct{}

const stackNetwork = "infisical"

// RenderCompose is a pure projection of the resolved config onto a compose
// document. The secrets themselves never appear in it; every service reads
// them through env_file. Image tags are always the pinned versions so a
// re-run deploys exactly what the config says, never whatever "latest"
// happens to mean today.
func RenderCompose(cfg Config) ([]byte, error) {
	backend := composeService{
		Image:   "infisical/infisical:" + cfg.InfisicalTag,
		Restart: "unless-stopped",
		Ports:   []string{backendBinding(cfg)},
		EnvFile: []string{".env"},
		DependsOn: map[string]dependsOn{
			// The backend runs migrations at boot, so postgres must be
			// actually answering, not merely started. Redis only has to
			// exist by then.
			"db":    {Condition: "service_healthy"},
			"redis": {Condition: "service_started"},
		},
		Networks: []string{stackNetwork},
	}

	db := composeService{
		Image:    "postgres:" + cfg.PostgresTag,
		Restart:  "unless-stopped",
		EnvFile:  []string{".env"},
		Volumes:  []string{"pg_data:/var/lib/postgresql/data"},
		Networks: []string{stackNetwork},
		Healthcheck: &composeHealthcheck{
			Test:     []string{"CMD-SHELL", "pg_isready --username=" + dbUser + " && psql --username=" + dbUser + " --list"},
			Interval: "5s",
			Timeout:  "10s",
			Retries:  10,
		},
	}

	redis := composeService{
		Image:    "redis:" + cfg.RedisTag,
		Restart:  "unless-stopped",
		Volumes:  []string{"redis_data:/data"},
		Networks: []string{stackNetwork},
	}

	doc := composeDocument{
		Services: map[string]composeService{
			"backend": backend,
			"db":      db,
			"redis":   redis,
		},
		Networks: map[string]composeNetwork{
			stackNetwork: {Driver: "bridge"},
		},
		Volumes: map[string]composeVolume{
			"pg_data":    {},
			"redis_data": {},
		},
	}
	return yaml.Marshal(doc)
}

// backendBinding is the one place the TLS mode touches the topology: behind
// the proxy the backend is loopback-only, without it the chosen port is open
// to the world.
func backendBinding(cfg Config) string {
	if cfg.TLSMode == TLSOff {
		return fmt.Sprintf("0.0.0.0:%d:%d", cfg.HTTPPort, backendPort)
	}
	return fmt.Sprintf("127.0.0.1:%d:%d", backendPort, backendPort)
}

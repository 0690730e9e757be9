package bootstrap

import (
	"fmt"
	"net/http"
	"time"
)

const (
	healthPath     = "/api/status"
	healthInterval = 5 * time.Second
	healthBudget   = 90 * time.Second
)

// StatusURL is the local endpoint the probe hits; it goes straight at the
// host binding rather than through the proxy so TLS setup problems cannot
// mask a healthy backend.
func StatusURL(cfg Config) string {
	if cfg.TLSMode == TLSOff {
		return fmt.Sprintf("http://127.0.0.1:%d%s", cfg.HTTPPort, healthPath)
	}
	return fmt.Sprintf("http://127.0.0.1:%d%s", backendPort, healthPath)
}

// ProbeHealth polls the status endpoint until it answers 2xx or the budget
// runs out. The result is advisory: containers may legitimately still be
// pulling images or running migrations when the budget expires.
func ProbeHealth(url string) bool {
	client := &http.Client{Timeout: healthInterval}
	deadline := time.Now().Add(healthBudget)
	for {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return true
			}
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(healthInterval)
	}
}

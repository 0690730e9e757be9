package bootstrap

import (
	"bytes"
	"fmt"
	"text/template"
)

const (
	nginxConfPath = "/etc/nginx/conf.d/infisical.conf"
	webrootDir    = "/var/www/letsencrypt"
	certLiveRoot  = "/etc/letsencrypt/live"
)

type vhostData struct {
	Domain  string
	Webroot string
	CertDir string
	Backend string
}

// Minimal vhost used only while the HTTP-01 challenge runs: serve the
// challenge path from the webroot and a placeholder for everything else.
const challengeVhostTemplate = `server {
    listen 80;
    server_name {{.Domain}};

    location /.well-known/acme-challenge/ {
        root {{.Webroot}};
    }

    location / {
        add_header Content-Type text/plain;
        return 200 'bootstrap-infisical: certificate setup in progress';
    }
}
`

// Final vhost pair: plain HTTP keeps the challenge path alive for renewals
// and redirects everything else; HTTPS terminates TLS and forwards to the
// loopback-only backend. Upgrade/Connection passthrough and the long read
// timeout keep websocket and SSE sessions from being cut off.
const tlsVhostTemplate = `server {
    listen 80;
    server_name {{.Domain}};

    location /.well-known/acme-challenge/ {
        root {{.Webroot}};
    }

    location / {
        return 301 https://$host$request_uri;
    }
}

server {
    listen 443 ssl http2;
    server_name {{.Domain}};

    ssl_certificate {{.CertDir}}/fullchain.pem;
    ssl_certificate_key {{.CertDir}}/privkey.pem;
    ssl_protocols TLSv1.2 TLSv1.3;

    client_max_body_size 64m;

    location / {
        proxy_pass http://{{.Backend}};
        proxy_http_version 1.1;
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
        proxy_set_header Upgrade $http_upgrade;
        proxy_set_header Connection "upgrade";
        proxy_read_timeout 86400s;
        proxy_send_timeout 86400s;
    }
}
`

func (c Config) vhostData() vhostData {
	return vhostData{
		Domain:  c.Domain,
		Webroot: webrootDir,
		CertDir: certLiveRoot + "/" + c.Domain,
		Backend: fmt.Sprintf("127.0.0.1:%d", backendPort),
	}
}

// ChallengeVhost renders the temporary challenge-only proxy configuration.
func ChallengeVhost(cfg Config) ([]byte, error) {
	return renderTemplate(challengeVhostTemplate, cfg.vhostData())
}

// TLSVhost renders the final TLS-terminating proxy configuration.
func TLSVhost(cfg Config) ([]byte, error) {
	return renderTemplate(tlsVhostTemplate, cfg.vhostData())
}

func renderTemplate(text string, data any) ([]byte, error) {
	tmpl, err := template.New("").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

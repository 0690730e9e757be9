package bootstrap

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

const cronPath = "/etc/cron.d/infisical-backup"

type backupData struct {
	ComposePath string
	EnvPath     string
	BackupDir   string
	KeepDays    int
	User        string
	Database    string
}

const backupScriptTemplate = `#!/bin/sh
# Nightly database dump with retention. Rewritten on every bootstrap run.
set -eu

docker compose -f {{.ComposePath}} --env-file {{.EnvPath}} -p infisical \
    exec -T db pg_dump --username={{.User}} {{.Database}} \
    | gzip > {{.BackupDir}}/infisical_$(date -u +%Y%m%dT%H%M%SZ).sql.gz

find {{.BackupDir}} -name 'infisical_*.sql.gz' -mtime +{{.KeepDays}} -delete
`

// InstallBackupCron writes the dump script into the install dir and a cron.d
// entry that runs it nightly. Retention is enforced by the script itself so
// editing BACKUP_KEEP_DAYS takes effect on the next run of this tool.
func InstallBackupCron(fsys billy.Filesystem, cfg Config) error {
	if err := ensureDir(fsys, cfg.BackupDir(), 0o750); err != nil {
		return err
	}
	data := backupData{
		ComposePath: cfg.ComposePath(),
		EnvPath:     cfg.EnvPath(),
		BackupDir:   cfg.BackupDir(),
		KeepDays:    cfg.BackupKeepDays,
		User:        dbUser,
		Database:    dbName,
	}
	script, err := renderTemplate(backupScriptTemplate, data)
	if err != nil {
		return err
	}
	scriptPath := filepath.Join(cfg.InstallDir, "backup-now.sh")
	if err := writeFile(fsys, scriptPath, script, 0o750); err != nil {
		return err
	}

	cron := []byte("# Written by bootstrap-infisical.\n30 2 * * * root " + scriptPath + " >/dev/null 2>&1\n")
	return writeFile(fsys, cronPath, cron, 0o644)
}

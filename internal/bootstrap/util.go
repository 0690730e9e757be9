package bootstrap

import (
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

func ensureDir(fsys billy.Filesystem, path string, mode os.FileMode) error {
	return fsys.MkdirAll(path, mode)
}

func fileExists(fsys billy.Filesystem, path string) bool {
	info, err := fsys.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// writeFileOwnerOnly replaces path in one rename so a crash mid-write never
// leaves a truncated config or secret file behind.
func writeFileOwnerOnly(fsys billy.Filesystem, path string, data []byte) error {
	tmp := path + ".tmp"
	if err := util.WriteFile(fsys, tmp, data, 0o600); err != nil {
		return err
	}
	return fsys.Rename(tmp, path)
}

func writeFile(fsys billy.Filesystem, path string, data []byte, mode os.FileMode) error {
	return util.WriteFile(fsys, path, data, mode)
}

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

var (
	projectRootDir     string
	projectRootDirOnce sync.Once
)

// GetProjectRootDir returns the module root directory. PROJECT_ROOT_DIR wins when set,
// otherwise the directory is resolved relative to this source file.
func GetProjectRootDir() string {
	projectRootDirOnce.Do(func() {
		if dir, ok := os.LookupEnv("PROJECT_ROOT_DIR"); ok {
			projectRootDir = dir
			return
		}

		_, file, _, ok := runtime.Caller(0)
		if !ok {
			projectRootDir = "."
			return
		}

		projectRootDir = filepath.Join(filepath.Dir(file), "..", "..")
	})

	return projectRootDir
}

package deps

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"reelscribe/internal/config"
)

// CheckDirectories verifies the directories the daemon writes to.
func CheckDirectories(cfg *config.Config) []Status {
	return []Status{
		CheckDirectory("temp_dir", cfg.Paths.TempDir),
		CheckDirectory("models", cfg.ModelsDir()),
		CheckDirectory("log_dir", cfg.Paths.LogDir),
	}
}

// CheckDirectory verifies that path exists and is readable and writable.
func CheckDirectory(name, path string) Status {
	status := Status{Name: name, Command: path, Path: path, Description: "directory"}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		status.Detail = fmt.Sprintf("%s does not exist", path)
	case err != nil:
		status.Detail = fmt.Sprintf("stat %s: %v", path, err)
	case !info.IsDir():
		status.Detail = fmt.Sprintf("%s is not a directory", path)
	default:
		if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
			status.Detail = fmt.Sprintf("%s: insufficient permissions: %v", path, err)
		} else {
			status.Available = true
		}
	}
	return status
}

package track

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSocketPath returns where shell hooks push execution-state updates.
func DefaultSocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir != "" {
		return filepath.Join(runtimeDir, "termsense", "exec.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("termsense-%d", os.Getuid()), "exec.sock")
}

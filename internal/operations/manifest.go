package operations

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"indicators/internal/config"
)

// SpecsFromManifest converts manifest entries to job specs. Relative paths are
// resolved against binDir. A bare command name runs from binDir when the file
// is there and is otherwise looked up on PATH. Entries without a timeout get
// config.DefaultJobTimeout.
func SpecsFromManifest(m *config.JobManifest, binDir string) []JobSpec {
	if m == nil {
		return nil
	}
	specs := make([]JobSpec, 0, len(m.Jobs))
	for _, e := range m.Jobs {
		specs = append(specs, JobSpec{
			Name:    e.Name,
			Command: resolveCommand(e, binDir),
			Args:    append([]string(nil), e.Args...),
			Timeout: e.Timeout(config.DefaultJobTimeout),
		})
	}
	return specs
}

func resolveCommand(e config.JobEntry, binDir string) string {
	cmd := e.Command
	if cmd == "" {
		cmd = e.Name
	}
	if runtime.GOOS == "windows" && filepath.Ext(cmd) == "" {
		cmd += ".exe"
	}
	if filepath.IsAbs(cmd) || binDir == "" {
		return cmd
	}

	local := filepath.Join(binDir, cmd)
	if strings.ContainsRune(cmd, '/') || strings.ContainsRune(cmd, filepath.Separator) {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	if path, err := exec.LookPath(cmd); err == nil {
		return path
	}
	return local
}

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DiagnosticsFilename is fixed so operators always know where to look.
const DiagnosticsFilename = "run_diagnostics.json"

// WriteDiagnostics persists the diagnostics document as indented JSON under
// dir. It is best-effort: callers log the error and keep going, since a
// failed diagnostics write must never mask the run's real outcome.
func WriteDiagnostics(dir string, doc any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	path := filepath.Join(dir, DiagnosticsFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

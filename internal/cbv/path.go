package cbv

import (
	"fmt"
	"path/filepath"
	"strings"
)

// safeJoin joins name onto outputDir, rejecting (rather than silently
// clamping) any name that is absolute or that would resolve outside
// outputDir via ".." components.
func safeJoin(outputDir, name string) (string, error) {
	slashName := filepath.ToSlash(name)
	if strings.HasPrefix(slashName, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("cbv: %q is an absolute path: %w", name, ErrUnsafePath)
	}

	joined := filepath.Join(outputDir, name)
	base := filepath.Clean(outputDir)
	if joined != base && !strings.HasPrefix(joined, base+string(filepath.Separator)) {
		return "", fmt.Errorf("cbv: %q escapes the output directory: %w", name, ErrUnsafePath)
	}

	return joined, nil
}

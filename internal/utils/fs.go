package utils

import (
	"os"
	"path/filepath"
)

// AssetRoots lists the directories searched for relative asset paths, in order.
func AssetRoots() []string {
	roots := []string{"."}

	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}

	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".local/share/modular-3d-computers"))
	}

	roots = append(roots, "/usr/share/modular-3d-computers")
	return roots
}

// FindAsset returns the first existing roots[i]/relPath. Absolute paths are
// returned unchanged. When nothing exists the path under the first root is
// returned so the caller's load error names a sensible location.
func FindAsset(relPath string, roots []string) string {
	if relPath == "" {
		return ""
	}
	if filepath.IsAbs(relPath) {
		return relPath
	}

	for _, root := range roots {
		p := filepath.Join(root, relPath)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}

	if len(roots) == 0 {
		return relPath
	}
	return filepath.Join(roots[0], relPath)
}

func ResolveAssetPath(relPath string) string {
	return FindAsset(relPath, AssetRoots())
}

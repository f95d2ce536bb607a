// Package noise classifies file paths as build or dependency artifacts so
// their line counts can be excluded from contribution totals.
package noise

import "strings"

var noiseFilenames = map[string]struct{}{
	"package-lock.json":   {},
	"npm-shrinkwrap.json": {},
	"pnpm-lock.yaml":      {},
	"yarn.lock":           {},
	"bun.lockb":           {},
	"composer.lock":       {},
	"poetry.lock":         {},
	"pipfile.lock":        {},
	"cargo.lock":          {},
	"gemfile.lock":        {},
	"mix.lock":            {},
	"pubspec.lock":        {},
	"podfile.lock":        {},
	"go.sum":              {},
}

var noiseDirMarkers = []string{
	"node_modules/",
	"dist/",
	"build/",
	"vendor/",
	"target/",
	"coverage/",
	".venv/",
	"venv/",
	"env/",
	".tox/",
	".mypy_cache/",
	".pytest_cache/",
	"__pycache__/",
	".gradle/",
	".idea/",
	".vscode/",
	"pods/",
	"deriveddata/",
}

// IsNoise reports whether a path points at a dependency lockfile or lives
// under a build/vendor/IDE directory. Matching is case-insensitive and
// normalizes Windows separators. Extra markers extend the directory set.
func IsNoise(path string, extraMarkers ...string) bool {
	if path == "" {
		return false
	}
	normalized := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))

	filename := normalized
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 {
		filename = normalized[idx+1:]
	}
	if _, ok := noiseFilenames[filename]; ok {
		return true
	}

	wrapped := "/" + normalized
	for _, marker := range noiseDirMarkers {
		if strings.Contains(wrapped, "/"+marker) {
			return true
		}
	}
	for _, marker := range extraMarkers {
		marker = strings.ToLower(marker)
		if !strings.HasSuffix(marker, "/") {
			marker += "/"
		}
		if strings.Contains(wrapped, "/"+marker) {
			return true
		}
	}
	return false
}

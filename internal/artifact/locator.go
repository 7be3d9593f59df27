package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOutputDirMissing is returned when the build output directory does not exist.
	ErrOutputDirMissing = errors.New("output directory does not exist")
	// ErrNoArtifact is returned when no file qualifies as the executable artifact.
	ErrNoArtifact = errors.New("could not find executable JAR file")
)

// DefaultName is the plain Maven artifact name of the language project.
const DefaultName = "language-1.0-SNAPSHOT.jar"

// Locator picks the packaged executable out of a build output directory.
//
// Candidates are visited in lexical order and matched tier by tier:
// a bundled-dependencies JAR, then the default name, then any JAR that is
// not an intermediate build product. The first tier with a match wins.
type Locator struct {
	Extension     string   // packaged-artifact extension, e.g. ".jar"
	BundledMarker string   // substring marking a fat JAR
	DefaultName   string   // exact name of the plain artifact
	Excluded      []string // markers excluded from the preferred tiers
	FallbackSkip  []string // markers excluded from the fallback tier
}

// NewLocator returns a Locator for the assembly/shade plugin conventions.
func NewLocator() *Locator {
	return &Locator{
		Extension:     ".jar",
		BundledMarker: "dependencies",
		DefaultName:   DefaultName,
		Excluded:      []string{"original", "shaded"},
		FallbackSkip:  []string{"original"},
	}
}

// Find returns the path of the artifact to run from dir.
func (l *Locator) Find(dir string) (string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return "", fmt.Errorf("%w: %s", ErrOutputDirMissing, dir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w", dir, err)
	}

	// os.ReadDir sorts by filename.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	name, ok := l.Select(names)
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoArtifact, dir)
	}
	path := filepath.Join(dir, name)
	slog.Debug("Selected artifact", "path", path, "candidates", len(names))
	return path, nil
}

// Select applies the preference tiers to a directory listing, in the order
// given, and returns the chosen file name.
func (l *Locator) Select(names []string) (string, bool) {
	var plain string
	for _, n := range names {
		if !l.isPackage(n) || containsAny(n, l.Excluded) {
			continue
		}
		if l.BundledMarker != "" && strings.Contains(n, l.BundledMarker) {
			return n, true
		}
		if plain == "" && n == l.DefaultName {
			plain = n
		}
	}
	if plain != "" {
		return plain, true
	}

	for _, n := range names {
		if l.isPackage(n) && !containsAny(n, l.FallbackSkip) {
			return n, true
		}
	}
	return "", false
}

func (l *Locator) isPackage(name string) bool {
	return strings.HasSuffix(name, l.Extension)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

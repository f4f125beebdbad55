package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Options controls discovery.
type Options struct {
	// Roots are scanned for bundle folders holding a manifest. When empty,
	// every catalog entry is used in registration order.
	Roots []string
	// Enabled is an ordered allow-list; when set it also fixes bundle order.
	Enabled []string
	// BaseDir resolves relative roots. Module paths derived from folder
	// locations are relative to it.
	BaseDir string
	Logger  *zap.Logger
}

type candidate struct {
	name       string
	modulePath string
	manifest   *Manifest
}

// Discover resolves the configured bundle set into descriptors, in
// attachment order.
func Discover(catalog *Catalog, opts Options) ([]*Bundle, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		found []candidate
		err   error
	)
	if len(opts.Roots) == 0 {
		for _, name := range catalog.Names() {
			found = append(found, candidate{name: name})
		}
	} else {
		found, err = scanRoots(opts, logger)
		if err != nil {
			return nil, err
		}
	}

	selected, err := selectEnabled(found, opts.Enabled)
	if err != nil {
		return nil, err
	}

	bundles := make([]*Bundle, 0, len(selected))
	for _, c := range selected {
		b, err := catalog.resolve(c.name, c.modulePath)
		if err != nil {
			return nil, err
		}
		if c.manifest != nil {
			b.Manifest = c.manifest.Path
			if b.Description == "" {
				b.Description = c.manifest.Description
			}
		}
		logger.Debug("Discovered bundle",
			zap.String("bundle", b.Name),
			zap.String("module", b.ModulePath),
			zap.String("manifest", b.Manifest),
		)
		bundles = append(bundles, b)
	}

	logger.Info("Bundle discovery complete", zap.Int("bundles", len(bundles)))
	return bundles, nil
}

// scanRoots reads every manifest found one level below each root.
// Missing roots are skipped with a warning.
func scanRoots(opts Options, logger *zap.Logger) ([]candidate, error) {
	var found []candidate
	seen := make(map[string]string)

	for _, root := range opts.Roots {
		dir := root
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(opts.BaseDir, root)
		}
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Bundle root not found", zap.String("root", dir))
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(dir), ManifestPattern)
		if err != nil {
			return nil, fmt.Errorf("scan bundle root %s: %w", dir, err)
		}
		sort.Strings(matches)

		for _, rel := range matches {
			m, err := LoadManifest(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				return nil, err
			}
			if !m.IsEnabled() {
				logger.Info("Skipping disabled bundle", zap.String("bundle", m.Name), zap.String("manifest", m.Path))
				continue
			}
			if prev, dup := seen[m.Name]; dup {
				return nil, fmt.Errorf("%w: %s declared by %s and %s", ErrDuplicateBundle, m.Name, prev, m.Path)
			}
			seen[m.Name] = m.Path

			modulePath := m.Module
			if modulePath == "" {
				modulePath = folderModulePath(opts.BaseDir, dir, root, path.Dir(rel))
			}
			found = append(found, candidate{name: m.Name, modulePath: modulePath, manifest: m})
		}
	}
	return found, nil
}

// folderModulePath derives a slash-separated module path for a bundle
// folder, relative to baseDir when possible.
func folderModulePath(baseDir, dir, root, folder string) string {
	if !filepath.IsAbs(root) {
		return path.Clean(path.Join(filepath.ToSlash(root), folder))
	}
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, dir); err == nil {
			return path.Clean(path.Join(filepath.ToSlash(rel), folder))
		}
	}
	return folder
}

func selectEnabled(found []candidate, enabled []string) ([]candidate, error) {
	if len(enabled) == 0 {
		return found, nil
	}

	byName := make(map[string]candidate, len(found))
	for _, c := range found {
		byName[c.name] = c
	}

	selected := make([]candidate, 0, len(enabled))
	picked := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s is enabled but was not discovered", ErrUnknownBundle, name)
		}
		if picked[name] {
			return nil, fmt.Errorf("%w: %s is enabled twice", ErrDuplicateBundle, name)
		}
		picked[name] = true
		selected = append(selected, c)
	}
	return selected, nil
}

// Package apk reads the installed package database of an APK-based system
// (Wolfi, Alpine): lib/apk/db/installed for the package records and
// etc/apk/world for the set of explicitly requested packages.
package apk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	goapk "chainguard.dev/apko/pkg/apk/apk"
	"github.com/chainguard-dev/clog"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

const (
	installedPath = "lib/apk/db/installed"
	worldPath     = "etc/apk/world"
)

// DB is a pkgdb.Source for the APK database under a root filesystem.
type DB struct {
	fsys afero.Fs
	root string
}

// New returns a DB for the system rooted at root.
func New(root string) *DB {
	return &DB{fsys: afero.NewBasePathFs(afero.NewOsFs(), root), root: root}
}

// NewFS returns a DB whose root filesystem is fsys.
func NewFS(fsys afero.Fs) *DB {
	return &DB{fsys: fsys, root: "."}
}

// Records returns the installed packages in database order. A package is
// explicitly installed when it's named in the world file.
func (db *DB) Records(ctx context.Context) ([]pkgdb.Record, error) {
	log := clog.FromContext(ctx)

	world, err := db.world()
	if err != nil {
		return nil, err
	}

	f, err := db.fsys.Open(installedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.root, installedPath), err)
	}
	defer f.Close()

	packages, err := goapk.ParsePackageIndex(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.root, installedPath), err)
	}

	records := make([]pkgdb.Record, 0, len(packages))
	for _, p := range packages {
		rec, err := toRecord(p, world)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.root, installedPath), err)
		}
		records = append(records, rec)
	}

	log.Debugf("read %d packages (%d in world) from %s", len(records), len(world), db.root)
	return records, nil
}

func toRecord(p *goapk.Package, world map[string]struct{}) (pkgdb.Record, error) {
	// "!name" entries are conflicts, not dependencies.
	raw := lo.Reject(p.Dependencies, func(d string, _ int) bool {
		return strings.HasPrefix(d, "!")
	})
	deps, err := pkgdb.ParseDependencies(raw)
	if err != nil {
		return pkgdb.Record{}, fmt.Errorf("package %q: %w", p.Name, err)
	}

	reason := pkgdb.ReasonDependency
	if _, ok := world[p.Name]; ok {
		reason = pkgdb.ReasonExplicit
	}

	return pkgdb.Record{
		Name:          p.Name,
		Version:       p.Version,
		Comment:       p.Description,
		Reason:        reason,
		Dependencies:  deps,
		Arch:          p.Arch,
		InstalledSize: p.InstalledSize,
		Provides:      p.Provides,
	}, nil
}

// world returns the package names listed in the world file, with any version
// constraint or "@tag" pinning removed. A missing world file means nothing
// was requested explicitly.
func (db *DB) world() (map[string]struct{}, error) {
	world := make(map[string]struct{})

	f, err := db.fsys.Open(worldPath)
	if errors.Is(err, fs.ErrNotExist) {
		return world, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.root, worldPath), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		for _, entry := range strings.Fields(scanner.Text()) {
			entry, _, _ = strings.Cut(entry, "@")
			d, err := pkgdb.ParseDependency(entry)
			if err != nil {
				continue
			}
			world[d.Target] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.root, worldPath), err)
	}

	return world, nil
}

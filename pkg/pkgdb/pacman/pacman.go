// Package pacman reads the local package database maintained by pacman
// (libalpm), typically found at /var/lib/pacman/local.
package pacman

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/afero"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

const (
	DefaultRoot   = "/"
	DefaultDBPath = "var/lib/pacman"

	localDir = "local"
	descFile = "desc"
)

// DB is a pkgdb.Source for a pacman database directory.
type DB struct {
	fsys afero.Fs
	dir  string
}

// New returns a DB rooted at root with the given database path, mirroring
// pacman's --root and --dbpath options.
func New(root, dbPath string) *DB {
	dir := filepath.Join(root, dbPath)
	return &DB{fsys: afero.NewBasePathFs(afero.NewOsFs(), dir), dir: dir}
}

// NewFS returns a DB whose database directory is the root of fsys.
func NewFS(fsys afero.Fs) *DB {
	return &DB{fsys: fsys, dir: "."}
}

// Records reads every package entry in the local database, in the order of
// their directory names (afero.ReadDir sorts them).
func (db *DB) Records(ctx context.Context) ([]pkgdb.Record, error) {
	log := clog.FromContext(ctx)

	entries, err := afero.ReadDir(db.fsys, localDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.dir, localDir), err)
	}

	var records []pkgdb.Record
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := path.Join(localDir, e.Name(), descFile)
		f, err := db.fsys.Open(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.dir, p), err)
		}
		rec, err := parseDesc(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, path.Join(db.dir, p), err)
		}

		records = append(records, rec)
	}

	log.Debugf("read %d packages from %s", len(records), path.Join(db.dir, localDir))
	return records, nil
}

// parseDesc parses the "%KEY%" sectioned format of a desc file. Each section
// is a header line followed by one value per line, ended by a blank line.
func parseDesc(r io.Reader) (pkgdb.Record, error) {
	sections := make(map[string][]string)

	var key string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			key = ""
		case key == "" && len(line) > 2 && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%"):
			key = strings.Trim(line, "%")
			sections[key] = nil
		case key != "":
			sections[key] = append(sections[key], line)
		}
	}
	if err := scanner.Err(); err != nil {
		return pkgdb.Record{}, err
	}

	first := func(k string) string {
		if v := sections[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	rec := pkgdb.Record{
		Name:     first("NAME"),
		Version:  first("VERSION"),
		Comment:  first("DESC"),
		Arch:     first("ARCH"),
		Provides: sections["PROVIDES"],
	}
	if rec.Name == "" {
		return pkgdb.Record{}, fmt.Errorf("missing %%NAME%% section")
	}

	if s := first("SIZE"); s != "" {
		size, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return pkgdb.Record{}, fmt.Errorf("invalid %%SIZE%% for %q: %w", rec.Name, err)
		}
		rec.InstalledSize = size
	}

	// libalpm writes %REASON% only for packages installed as a dependency.
	switch first("REASON") {
	case "", "0":
		rec.Reason = pkgdb.ReasonExplicit
	case "1":
		rec.Reason = pkgdb.ReasonDependency
	default:
		return pkgdb.Record{}, fmt.Errorf("invalid %%REASON%% %q for %q", first("REASON"), rec.Name)
	}

	deps, err := pkgdb.ParseDependencies(sections["DEPENDS"])
	if err != nil {
		return pkgdb.Record{}, fmt.Errorf("invalid %%DEPENDS%% for %q: %w", rec.Name, err)
	}
	rec.Dependencies = deps

	return rec, nil
}

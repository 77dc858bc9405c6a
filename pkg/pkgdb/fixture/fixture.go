// Package fixture provides a pkgdb.Source backed by a YAML file, for trying
// queries against a package set without a real package manager.
//
// The file format is:
//
//	packages:
//	  - name: bash
//	    version: "5.2"
//	    comment: The GNU Bourne Again shell
//	    reason: explicit
//	    depends: [glibc, readline>=8]
package fixture

import (
	"context"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
	"gopkg.in/yaml.v3"
)

type document struct {
	Packages []entry `yaml:"packages"`
}

type entry struct {
	Name     string   `yaml:"name"`
	Version  string   `yaml:"version"`
	Comment  string   `yaml:"comment"`
	Reason   string   `yaml:"reason"`
	Arch     string   `yaml:"arch"`
	Size     uint64   `yaml:"size"`
	Depends  []string `yaml:"depends"`
	Provides []string `yaml:"provides"`
}

// File is a pkgdb.Source reading records from a YAML file.
type File struct {
	path string
}

func New(path string) *File {
	return &File{path: path}
}

func (f *File) Records(ctx context.Context) ([]pkgdb.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgdb.ErrSource, err)
	}

	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgdb.ErrSource, f.path, err)
	}

	clog.FromContext(ctx).Debugf("read %d packages from %s", len(records), f.path)
	return records, nil
}

// Parse decodes a fixture document.
func Parse(data []byte) ([]pkgdb.Record, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to decode YAML: %w", err)
	}

	records := make([]pkgdb.Record, 0, len(doc.Packages))
	for i, e := range doc.Packages {
		if e.Name == "" {
			return nil, fmt.Errorf("package at index %d has no name", i)
		}

		reason, err := pkgdb.ParseReason(e.Reason)
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", e.Name, err)
		}

		deps, err := pkgdb.ParseDependencies(e.Depends)
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", e.Name, err)
		}

		records = append(records, pkgdb.Record{
			Name:          e.Name,
			Version:       e.Version,
			Comment:       e.Comment,
			Reason:        reason,
			Dependencies:  deps,
			Arch:          e.Arch,
			InstalledSize: e.Size,
			Provides:      e.Provides,
		})
	}

	return records, nil
}

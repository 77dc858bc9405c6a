package cli

import (
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"github.com/wolfi-dev/pkgblame/pkg/cli/styles"
	"github.com/wolfi-dev/pkgblame/pkg/config"
	"github.com/wolfi-dev/pkgblame/pkg/dag"
	"github.com/wolfi-dev/pkgblame/pkg/format"
	"github.com/wolfi-dev/pkgblame/pkg/ls"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb/apk"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb/fixture"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb/pacman"
	"github.com/wolfi-dev/pkgblame/pkg/query"
	"golang.org/x/term"
)

type rootParams struct {
	version    bool
	verbose    bool
	color      bool
	format     string
	configPath string

	source string
	root   string
	dbPath string
	db     string

	list       bool
	explicit   bool
	dependency bool
	requiredBy string
	transitive bool
}

func (p *rootParams) addFlagsTo(cmd *cobra.Command) {
	fs := cmd.Flags()

	fs.BoolP("help", "h", false, "display help on any item")
	onceBoolVarP(fs, &p.version, "version", "V", "display version and exit")
	onceBoolVarP(fs, &p.verbose, "verbose", "v", "print information of what is going on")
	onceBoolVarP(fs, &p.color, "color", "c", "use colors on terminals that support them")
	onceStringVarP(fs, &p.format, "format", "", "", "print using the format (e.g. '%n %v')")
	fs.StringVar(&p.configPath, "config", config.DefaultPath(), "path to the config file")
	fs.StringVar(&p.source, "source", string(config.SourcePacman), fmt.Sprintf("package database to read, one of %v", config.Sources))
	fs.StringVar(&p.root, "root", pacman.DefaultRoot, "root directory of the system to inspect")
	fs.StringVar(&p.dbPath, "dbpath", pacman.DefaultDBPath, "pacman database path, relative to the root")
	fs.StringVar(&p.db, "db", "", "YAML package file for the \"file\" source")

	onceBoolVarP(fs, &p.list, "list", "L", "utilities for listing packages")

	setGroup(onceBoolVarP(fs, &p.explicit, "explicit", "e", "filter on explicitly installed packages"), "list")
	setGroup(onceBoolVarP(fs, &p.dependency, "dependency", "d", "filter on packages installed as a dependency"), "list")
	setGroup(onceStringVarP(fs, &p.requiredBy, "required-by", "r", "", "show packages that require this package (package:<name> or <name>)"), "list")
	setGroup(onceBoolVarP(fs, &p.transitive, "transitive", "t", "with -r, also show packages that require it indirectly"), "list")
}

// resolveConfig merges the config file with the flags given on the command
// line. Flags win.
func (p *rootParams) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	cfg, err := config.Load(p.configPath, flags.Changed("config"))
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("source") {
		cfg.Source = config.Source(p.source)
	}
	if flags.Changed("root") {
		cfg.Root = p.root
	}
	if flags.Changed("dbpath") {
		cfg.DBPath = p.dbPath
	}
	if flags.Changed("db") {
		cfg.DB = p.db
	}
	if flags.Changed("format") {
		cfg.Format = p.format
	}
	if flags.Changed("color") {
		cfg.Color = p.color
	}
	if cfg.Format == "" {
		cfg.Format = format.Default
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newSource(cfg config.Config) (pkgdb.Source, error) {
	switch cfg.Source {
	case config.SourcePacman:
		return pacman.New(cfg.Root, cfg.DBPath), nil
	case config.SourceAPK:
		return apk.New(cfg.Root), nil
	case config.SourceFile:
		return fixture.New(cfg.DB), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// isTerminal reports whether the command's output is a terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runList(cmd *cobra.Command, p *rootParams, args []string) error {
	log := newLogger(cmd.ErrOrStderr(), p.verbose)
	ctx := clog.WithLogger(cmd.Context(), log)

	cfg, err := p.resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Everything that can be rejected is checked before reading the database.
	tmpl, err := format.Compile(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Color && isTerminal(cmd) {
		tmpl = tmpl.WithStyles(styles.Fields())
	}

	queries := make([]query.Expression, 0, len(args))
	for _, arg := range args {
		q, err := query.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid query %q: %w", arg, err)
		}
		queries = append(queries, q)
	}

	var requiredBy *query.Expression
	if cmd.Flags().Changed("required-by") {
		expr, err := query.Parse(p.requiredBy)
		if err != nil {
			return fmt.Errorf("invalid --required-by expression: %w", err)
		}
		requiredBy = &expr
	} else if p.transitive {
		log.Warnf("the %q option has no effect without --required-by", "transitive")
	}

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	records, err := src.Records(ctx)
	if err != nil {
		return err
	}

	opts := ls.ListOptions{
		Records:   records,
		Selection: ls.SelectionFor(p.explicit, p.dependency),
		Queries:   queries,
		Template:  tmpl,
	}

	if requiredBy != nil {
		opts.RequiredBy = *requiredBy
		if p.transitive {
			g, err := dag.NewGraph(records)
			if err != nil {
				return fmt.Errorf("unable to build dependency graph: %w", err)
			}
			f, err := query.Transitive(*requiredBy, g)
			if err != nil {
				return fmt.Errorf("unable to resolve packages requiring %q: %w", requiredBy, err)
			}
			opts.RequiredBy = f
		}
	}

	log.Debugf("source=%s selection=%s queries=%v required-by=%v transitive=%t", cfg.Source, opts.Selection, queries, requiredBy, p.transitive)

	if err := ls.List(ctx, opts, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("unable to list packages: %w", err)
	}

	return nil
}

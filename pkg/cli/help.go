package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// groupAnnotation marks flags that only apply within an operation, such as
// -e under -L. Flags without it belong to the top-level group.
const groupAnnotation = "pkgblame_group"

func setGroup(f *pflag.Flag, group string) {
	if f.Annotations == nil {
		f.Annotations = map[string][]string{}
	}
	f.Annotations[groupAnnotation] = []string{group}
}

func flagGroup(f *pflag.Flag) string {
	if g := f.Annotations[groupAnnotation]; len(g) > 0 {
		return g[0]
	}
	return ""
}

type helpRow struct {
	key    string
	symbol string
	usage  string
}

// printGroupHelp writes one line per flag in group: a tab, the "-s|--long"
// symbol padded to the widest symbol, a tab, and the flag's usage. Rows are
// ordered by shorthand, or by long name for flags without one.
func printGroupHelp(w io.Writer, fs *pflag.FlagSet, group string) error {
	var rows []helpRow
	width := 0

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || flagGroup(f) != group {
			return
		}

		var row helpRow
		if f.Shorthand != "" {
			row.key = "-" + f.Shorthand
			row.symbol = fmt.Sprintf("-%s|--%s", f.Shorthand, f.Name)
		} else {
			row.key = "--" + f.Name
			row.symbol = "   --" + f.Name
		}
		if f.NoOptDefVal == "" {
			row.symbol += "=VALUE"
		}
		row.usage = f.Usage

		width = max(width, len(row.symbol))
		rows = append(rows, row)
	})

	sort.Slice(rows, func(i, j int) bool { return rows[i].key < rows[j].key })

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("\t%-*s\t%s", width, row.symbol, row.usage))
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// helpFunc prints the top-level options, or the options of the operation
// given alongside -h (e.g. "-L -h").
func helpFunc(defaultHelp func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if cmd.HasParent() {
			defaultHelp(cmd, args)
			return
		}

		w := cmd.OutOrStdout()
		group := ""
		if list, err := cmd.Flags().GetBool("list"); err == nil && list {
			group = "list"
		}

		if group == "" {
			fmt.Fprintf(w, "usage: %s <operation> [options] [query...]\n\n", cmd.Name())
			fmt.Fprintln(w, "options:")
		} else {
			fmt.Fprintf(w, "usage: %s -L [options] [query...]\n\n", cmd.Name())
			fmt.Fprintln(w, "list options:")
		}

		if err := printGroupHelp(w, cmd.Flags(), group); err != nil {
			cmd.PrintErrln(err)
		}
	}
}

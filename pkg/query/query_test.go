package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfi-dev/pkgblame/pkg/dag"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input          string
		expected       Expression
		errorIs        error
		errorAssertion assert.ErrorAssertionFunc
	}{
		{
			input:          "glibc",
			expected:       Expression{Property: PropertyNone, Name: "glibc"},
			errorAssertion: assert.NoError,
		},
		{
			input:          "package:glibc",
			expected:       Expression{Property: PropertyPackage, Name: "glibc"},
			errorAssertion: assert.NoError,
		},
		{
			input:          "package:so:libc.so.6",
			expected:       Expression{Property: PropertyPackage, Name: "so:libc.so.6"},
			errorAssertion: assert.NoError,
		},
		{
			input:          "provides:sh",
			errorIs:        ErrUnsupportedProperty,
			errorAssertion: assert.Error,
		},
		{
			input:          " package:glibc",
			errorIs:        ErrSyntax,
			errorAssertion: assert.Error,
		},
		{
			input:          "package:",
			errorIs:        ErrSyntax,
			errorAssertion: assert.Error,
		},
		{
			input:          "",
			errorIs:        ErrSyntax,
			errorAssertion: assert.Error,
		},
	}

	for _, tt := range cases {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input)
			tt.errorAssertion(t, err)
			if tt.errorIs != nil {
				assert.ErrorIs(t, err, tt.errorIs)
			}
			assert.Equal(t, tt.expected, expr)
		})
	}
}

func TestExpressionString(t *testing.T) {
	for _, s := range []string{"glibc", "package:glibc"} {
		expr, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, expr.String())
	}
}

var (
	glibc = pkgdb.Record{Name: "glibc", Reason: pkgdb.ReasonDependency}
	bash  = pkgdb.Record{
		Name:         "bash",
		Reason:       pkgdb.ReasonExplicit,
		Dependencies: []pkgdb.Dependency{{Target: "glibc", Constraint: ">=2.38"}, {Target: "readline"}},
	}
	readline = pkgdb.Record{
		Name:         "readline",
		Reason:       pkgdb.ReasonDependency,
		Dependencies: []pkgdb.Dependency{{Target: "ncurses"}},
	}
)

func TestExpressionMatches(t *testing.T) {
	cases := []struct {
		expr     string
		record   pkgdb.Record
		expected bool
	}{
		{expr: "glibc", record: bash, expected: true},
		{expr: "package:glibc", record: bash, expected: true},
		{expr: "readline", record: bash, expected: true},
		{expr: "ncurses", record: bash, expected: false},
		{expr: "Glibc", record: bash, expected: false},
		{expr: "glib", record: bash, expected: false},
		{expr: "glibc", record: glibc, expected: false},
		{expr: "package:glibc", record: glibc, expected: false},
	}

	for _, tt := range cases {
		t.Run(tt.expr+"/"+tt.record.Name, func(t *testing.T) {
			expr, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, expr.Matches(tt.record))
		})
	}
}

func TestExpressionMatchesName(t *testing.T) {
	expr, err := Parse("package:bash")
	require.NoError(t, err)

	assert.True(t, expr.MatchesName(bash))
	assert.False(t, expr.MatchesName(glibc))
}

func TestTransitive(t *testing.T) {
	records := []pkgdb.Record{glibc, bash, readline}
	g, err := dag.NewGraph(records)
	require.NoError(t, err)

	expr, err := Parse("package:ncurses")
	require.NoError(t, err)

	f, err := Transitive(expr, g)
	require.NoError(t, err)

	var direct, transitive []string
	for _, r := range records {
		if expr.Matches(r) {
			direct = append(direct, r.Name)
		}
		if f.Matches(r) {
			transitive = append(transitive, r.Name)
		}
	}

	assert.Equal(t, []string{"readline"}, direct)
	assert.Equal(t, []string{"bash", "readline"}, transitive)
}

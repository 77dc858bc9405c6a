package pkgdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDependency(t *testing.T) {
	cases := []struct {
		raw            string
		expected       Dependency
		errorAssertion assert.ErrorAssertionFunc
	}{
		{
			raw:            "gsfonts",
			expected:       Dependency{Target: "gsfonts"},
			errorAssertion: assert.NoError,
		},
		{
			raw:            "glibc>=2.38",
			expected:       Dependency{Target: "glibc", Constraint: ">=2.38"},
			errorAssertion: assert.NoError,
		},
		{
			raw:            "so:libc.musl-x86_64.so.1",
			expected:       Dependency{Target: "so:libc.musl-x86_64.so.1"},
			errorAssertion: assert.NoError,
		},
		{
			raw:            "python~3.12",
			expected:       Dependency{Target: "python", Constraint: "~3.12"},
			errorAssertion: assert.NoError,
		},
		{
			raw:            ">=1.0",
			errorAssertion: assert.Error,
		},
		{
			raw:            "  ",
			errorAssertion: assert.Error,
		},
	}

	for _, tt := range cases {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := ParseDependency(tt.raw)
			tt.errorAssertion(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "explicit", ReasonExplicit.String())
	assert.Equal(t, "dependency", ReasonDependency.String())

	for _, s := range []string{"explicit", "Explicit", ""} {
		r, err := ParseReason(s)
		assert.NoError(t, err)
		assert.Equal(t, ReasonExplicit, r)
	}
	for _, s := range []string{"dependency", "Depend"} {
		r, err := ParseReason(s)
		assert.NoError(t, err)
		assert.Equal(t, ReasonDependency, r)
	}

	_, err := ParseReason("optional")
	assert.Error(t, err)
}

func TestRecordDependsOn(t *testing.T) {
	bash := Record{
		Name:         "bash",
		Dependencies: []Dependency{{Target: "glibc", Constraint: ">=2.38"}, {Target: "readline"}},
	}

	assert.True(t, bash.DependsOn("glibc"))
	assert.True(t, bash.DependsOn("readline"))
	assert.False(t, bash.DependsOn("Glibc"))
	assert.False(t, bash.DependsOn("glibc>=2.38"))
	assert.False(t, Record{Name: "glibc"}.DependsOn("glibc"))
}

package fixture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

func TestFileRecords(t *testing.T) {
	records, err := New("testdata/packages.yaml").Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, pkgdb.Record{
		Name:          "bash",
		Version:       "5.2",
		Comment:       "The GNU Bourne Again shell",
		Reason:        pkgdb.ReasonExplicit,
		Dependencies:  []pkgdb.Dependency{{Target: "glibc", Constraint: ">=2.38"}, {Target: "readline"}},
		Arch:          "x86_64",
		InstalledSize: 9463851,
		Provides:      []string{"sh"},
	}, records[1])
	assert.Equal(t, pkgdb.ReasonDependency, records[0].Reason)
	assert.Equal(t, pkgdb.ReasonDependency, records[2].Reason)
}

func TestFileRecordsMissing(t *testing.T) {
	_, err := New("testdata/nonexistent.yaml").Records(context.Background())
	assert.ErrorIs(t, err, pkgdb.ErrSource)
}

func TestParse(t *testing.T) {
	cases := []struct {
		name           string
		data           string
		expectedNames  []string
		errorAssertion assert.ErrorAssertionFunc
	}{
		{
			name:           "empty document",
			data:           "",
			expectedNames:  []string{},
			errorAssertion: assert.NoError,
		},
		{
			name:           "default reason is explicit",
			data:           "packages:\n  - name: zsh\n",
			expectedNames:  []string{"zsh"},
			errorAssertion: assert.NoError,
		},
		{
			name:           "missing name",
			data:           "packages:\n  - version: '1'\n",
			errorAssertion: assert.Error,
		},
		{
			name:           "unknown reason",
			data:           "packages:\n  - name: zsh\n    reason: optional\n",
			errorAssertion: assert.Error,
		},
		{
			name:           "empty dependency target",
			data:           "packages:\n  - name: zsh\n    depends: ['>=1']\n",
			errorAssertion: assert.Error,
		},
		{
			name:           "not YAML",
			data:           "packages: [",
			errorAssertion: assert.Error,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Parse([]byte(tt.data))
			tt.errorAssertion(t, err)
			if err != nil {
				return
			}

			names := make([]string, 0, len(records))
			for _, r := range records {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}
}

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wolfi-dev/pkgblame/pkg/format"
)

func TestPick(t *testing.T) {
	defer func(prev bool) { darkMode = prev }(darkMode)

	darkMode = true
	assert.Equal(t, accented, pick(accented, accentedLight))

	darkMode = false
	assert.Equal(t, accentedLight, pick(accented, accentedLight))
}

func TestFields(t *testing.T) {
	styles := Fields()

	for _, f := range []format.Field{format.FieldName, format.FieldVersion, format.FieldComment, format.FieldReason} {
		assert.Contains(t, styles.Fields, f)
	}
	assert.NotContains(t, styles.Fields, format.FieldDepends, "dependency lists are printed unstyled")
}

package yaml_test

import (
	"testing"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/frame/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMetadata = `
columns:
  age: numeric
  income: increasing
  risk: decreasing
  color:
    - red
    - green
    - blue
`

func TestReadColumns(t *testing.T) {
	columns, err := yaml.ReadColumns([]byte(sampleMetadata))
	require.NoError(t, err)
	require.Len(t, columns, 4)

	assert.Equal(t, []frame.ColumnSpec{
		{Name: "age"},
		{Name: "color", Categories: []string{"red", "green", "blue"}},
		{Name: "income", Mono: 1},
		{Name: "risk", Mono: -1},
	}, columns)
	assert.True(t, columns[1].IsFactor())
	assert.Equal(t, 1, columns[1].CategoryCode("green"))
	assert.Equal(t, -1, columns[1].CategoryCode("purple"))
}

func TestReadColumnsRejectsUnknownNumericDeclaration(t *testing.T) {
	_, err := yaml.ReadColumns([]byte("columns:\n  age: continuous\n"))
	assert.Error(t, err)
}

func TestReadColumnsRequiresColumns(t *testing.T) {
	_, err := yaml.ReadColumns([]byte("features:\n  age: numeric\n"))
	assert.Error(t, err)
}

func TestReadColumnsRejectsInvalidYML(t *testing.T) {
	_, err := yaml.ReadColumns([]byte("columns: [}"))
	assert.Error(t, err)
}

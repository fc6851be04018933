package csv_test

import (
	"strings"
	"testing"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/sample"
	"github.com/pbanos/arboretum/sample/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvColumns() []frame.ColumnSpec {
	return []frame.ColumnSpec{
		{Name: "age"},
		{Name: "color", Categories: []string{"red", "green", "blue"}},
		{Name: "price"},
	}
}

func TestReadMatrix(t *testing.T) {
	data := strings.Join([]string{
		"color,age,price",
		"green,3,10.5",
		"red,5,12",
		"blue,4,11",
	}, "\n")
	m, err := csv.ReadMatrix(strings.NewReader(data), csvColumns())
	require.NoError(t, err)
	assert.Equal(t, 3, m.NRows())

	s, err := m.ResponseSet("price", []int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, sample.Regression, s.Response())
	assert.InDelta(t, 33.5, s.Sum(), 1e-9)
}

func TestReadMatrixUnknownHeaderColumn(t *testing.T) {
	data := "color,age,weight\ngreen,3,10.5\n"
	_, err := csv.ReadMatrix(strings.NewReader(data), csvColumns())
	assert.EqualError(t, err, "parsing header: reference to unknown column weight")
}

func TestReadMatrixMissingHeaderColumn(t *testing.T) {
	data := "color,age\ngreen,3\n"
	_, err := csv.ReadMatrix(strings.NewReader(data), csvColumns())
	assert.EqualError(t, err, "parsing header: got 2 columns, 3 are defined")
}

func TestReadMatrixInvalidValues(t *testing.T) {
	data := "color,age,price\nyellow,3,10.5\n"
	_, err := csv.ReadMatrix(strings.NewReader(data), csvColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"yellow" is not a category of column color`)

	data = "color,age,price\ngreen,old,10.5\n"
	_, err = csv.ReadMatrix(strings.NewReader(data), csvColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing line 2: converting old to float64")
}

func TestReadMatrixByRowStops(t *testing.T) {
	data := strings.Join([]string{
		"color,age,price",
		"green,3,10.5",
		"red,5,12",
		"blue,4,11",
	}, "\n")
	var seen int
	err := csv.ReadMatrixByRow(strings.NewReader(data), csvColumns(), func(i int, _ map[string]interface{}) (bool, error) {
		seen++
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

package sqlsample_test

import (
	"fmt"
	"testing"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/sample"
	"github.com/pbanos/arboretum/sample/sqlsample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	table              string
	numericColumns     []string
	categoricalColumns []string
	rows               []map[string]interface{}
}

func (a *fakeAdapter) ColumnName(name string) (string, error) {
	if name == "id" {
		return "", fmt.Errorf("'%s' is reserved and cannot be used as column name", name)
	}
	return name, nil
}

func (a *fakeAdapter) CountRows(table string) (int, error) {
	return len(a.rows), nil
}

func (a *fakeAdapter) IterateOnRows(table string, numericColumns, categoricalColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	a.table = table
	a.numericColumns = numericColumns
	a.categoricalColumns = categoricalColumns
	for i, row := range a.rows {
		ok, err := lambda(i, row)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

func TestReadMatrix(t *testing.T) {
	columns := []frame.ColumnSpec{
		{Name: "age"},
		{Name: "color", Categories: []string{"red", "green", "blue"}},
		{Name: "price"},
	}
	adapter := &fakeAdapter{rows: []map[string]interface{}{
		{"age": 3.0, "color": "green", "price": 10.5},
		{"age": 5.0, "color": "red", "price": 12.0},
	}}

	m, err := sqlsample.ReadMatrix(adapter, "samples", columns)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NRows())
	assert.Equal(t, "samples", adapter.table)
	assert.Equal(t, []string{"age", "price"}, adapter.numericColumns)
	assert.Equal(t, []string{"color"}, adapter.categoricalColumns)

	s, err := m.ResponseSet("price", []int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, sample.Regression, s.Response())
	assert.InDelta(t, 22.5, s.Sum(), 1e-9)
}

func TestReadMatrixRejectsReservedColumn(t *testing.T) {
	columns := []frame.ColumnSpec{{Name: "id"}, {Name: "price"}}
	_, err := sqlsample.ReadMatrix(&fakeAdapter{}, "samples", columns)
	assert.EqualError(t, err, "reading training matrix: 'id' is reserved and cannot be used as column name")
}

func TestReadMatrixEmptyTable(t *testing.T) {
	columns := []frame.ColumnSpec{{Name: "price"}}
	_, err := sqlsample.ReadMatrix(&fakeAdapter{}, "samples", columns)
	assert.EqualError(t, err, "reading training matrix: table samples has no rows")
}

func TestReadMatrixInvalidRow(t *testing.T) {
	columns := []frame.ColumnSpec{
		{Name: "color", Categories: []string{"red", "green"}},
		{Name: "price"},
	}
	adapter := &fakeAdapter{rows: []map[string]interface{}{
		{"color": "blue", "price": 10.5},
	}}
	_, err := sqlsample.ReadMatrix(adapter, "samples", columns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"blue" is not a category of column color`)
}

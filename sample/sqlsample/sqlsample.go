package sqlsample

import (
	"fmt"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/sample"
)

/*
Adapter is an interface providing the methods needed to read a training
matrix from a database backend.
*/
type Adapter interface {
	// ColumnName validates a column name for the backend and
	// returns the name to use on queries, or an error if the
	// name cannot be used as a column.
	ColumnName(string) (string, error)
	// CountRows returns the number of rows on the given table
	CountRows(table string) (int, error)
	// IterateOnRows selects the given numeric and categorical
	// columns from the given table and calls the lambda function
	// with each row and its index as parameters. Numeric columns
	// are reported as float64 values and categorical columns as
	// string values. If the lambda function returns true the
	// iteration continues with the next row, otherwise it stops.
	IterateOnRows(table string, numericColumns, categoricalColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error
}

/*
ReadMatrix takes an Adapter, a table name and a slice of column specs
and returns a sample.Matrix with the rows read from the table on the
adapter's backend or an error. Every column spec must match a column of
the table holding a float value when numeric and a category name when
categorical, and the table must have rows to read.
*/
func ReadMatrix(adapter Adapter, table string, columns []frame.ColumnSpec) (*sample.Matrix, error) {
	var numericColumns, categoricalColumns []string
	columnOf := make(map[string]frame.ColumnSpec)
	for _, c := range columns {
		name, err := adapter.ColumnName(c.Name)
		if err != nil {
			return nil, fmt.Errorf("reading training matrix: %v", err)
		}
		columnOf[name] = c
		if c.IsFactor() {
			categoricalColumns = append(categoricalColumns, name)
		} else {
			numericColumns = append(numericColumns, name)
		}
	}
	count, err := adapter.CountRows(table)
	if err != nil {
		return nil, fmt.Errorf("reading training matrix: counting rows on %s: %v", table, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("reading training matrix: table %s has no rows", table)
	}
	m := sample.NewMatrix(columns)
	err = adapter.IterateOnRows(table, numericColumns, categoricalColumns, func(i int, rawRow map[string]interface{}) (bool, error) {
		values := make(map[string]interface{}, len(rawRow))
		for name, v := range rawRow {
			values[columnOf[name].Name] = v
		}
		return true, m.AddRow(values)
	})
	if err != nil {
		return nil, fmt.Errorf("reading training matrix: %v", err)
	}
	return m, nil
}

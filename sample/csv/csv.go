package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/sample"
)

/*
ReadMatrix takes an io.Reader for a CSV stream and a slice of column
specs and returns a sample.Matrix with the rows parsed from the reader
or an error.

The header or first row of the CSV content is expected to consist of
the names of the columns in the given slice, in any order but covering
all of them. The rest of the rows should consist of valid values for
every column: a float for numeric columns, a category for categorical
ones.
*/
func ReadMatrix(reader io.Reader, columns []frame.ColumnSpec) (*sample.Matrix, error) {
	m := sample.NewMatrix(columns)
	err := ReadMatrixByRow(reader, columns, func(_ int, values map[string]interface{}) (bool, error) {
		return true, m.AddRow(values)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

/*
ReadMatrixByRow takes an io.Reader for a CSV stream, a slice of column
specs and a lambda function on an integer and a map from column names
to raw values that returns a boolean value. It parses the rows from the
reader and for each it calls the lambda function with the row and its
index as parameters. If the lambda function returns true, it will
continue processing the next row, otherwise it will stop. An error is
returned if something goes wrong when reading the stream or parsing a
row.
*/
func ReadMatrixByRow(reader io.Reader, columns []frame.ColumnSpec, lambda func(int, map[string]interface{}) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columnOrder, err := parseColumnsFromCSVHeader(header, columns)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		values, err := parseValuesFromCSVRow(row, columnOrder)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, values)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadMatrixFromFilePath takes a filepath string and a slice of column
specs, opens the file to which the filepath points to (os.Stdin is used
when the filepath is "") and uses ReadMatrix to return a sample.Matrix
read from it or an error.
*/
func ReadMatrixFromFilePath(filepath string, columns []frame.ColumnSpec) (*sample.Matrix, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading training matrix: %v", err)
		}
	}
	defer f.Close()
	m, err := ReadMatrix(f, columns)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return m, err
}

func parseColumnsFromCSVHeader(header []string, columns []frame.ColumnSpec) ([]frame.ColumnSpec, error) {
	columnsByName := make(map[string]frame.ColumnSpec)
	for _, c := range columns {
		columnsByName[c.Name] = c
	}
	columnOrder := make([]frame.ColumnSpec, 0, len(header))
	for _, name := range header {
		c, ok := columnsByName[name]
		if !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown column %s", name)
		}
		columnOrder = append(columnOrder, c)
	}
	if len(columnOrder) != len(columns) {
		return nil, fmt.Errorf("parsing header: got %d columns, %d are defined", len(columnOrder), len(columns))
	}
	return columnOrder, nil
}

func parseValuesFromCSVRow(row []string, columnOrder []frame.ColumnSpec) (map[string]interface{}, error) {
	if len(row) != len(columnOrder) {
		return nil, fmt.Errorf("got %d values for %d columns", len(row), len(columnOrder))
	}
	values := make(map[string]interface{})
	for i, c := range columnOrder {
		if c.IsFactor() {
			values[c.Name] = row[i]
			continue
		}
		value, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return nil, fmt.Errorf("converting %s to float64: %v", row[i], err)
		}
		values[c.Name] = value
	}
	return values, nil
}

package sample

import (
	"fmt"

	"github.com/pbanos/arboretum/frame"
)

/*
Matrix holds raw training columns before rank encoding: numeric values
for numeric columns and category codes for categorical ones, keyed by
the column specs they were read against. A Matrix is filled row by row
by the data readers and then turned into a predictor frame and a
response sample set.
*/
type Matrix struct {
	columns     []frame.ColumnSpec
	numeric     map[string][]float64
	categorical map[string][]int
	rows        int
}

/*
NewMatrix takes a slice of column specs and returns an empty Matrix
with a column for each of them.
*/
func NewMatrix(columns []frame.ColumnSpec) *Matrix {
	m := &Matrix{
		columns:     columns,
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]int),
	}
	for _, c := range columns {
		if c.IsFactor() {
			m.categorical[c.Name] = nil
		} else {
			m.numeric[c.Name] = nil
		}
	}
	return m
}

/*
AddRow takes a map from column names to raw values and appends a row to
the matrix. Numeric columns expect a float64 value and categorical
columns a string naming one of their categories. An error is returned
if a column has no value in the map, a value has the wrong type or a
string is not a category of its column.
*/
func (m *Matrix) AddRow(values map[string]interface{}) error {
	row := make(map[string]interface{}, len(m.columns))
	for _, c := range m.columns {
		v, ok := values[c.Name]
		if !ok {
			return fmt.Errorf("row %d: no value for column %s", m.rows, c.Name)
		}
		if c.IsFactor() {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("row %d: invalid value %v of type %T for categorical column %s", m.rows, v, v, c.Name)
			}
			code := c.CategoryCode(s)
			if code < 0 {
				return fmt.Errorf("row %d: %q is not a category of column %s", m.rows, s, c.Name)
			}
			row[c.Name] = code
		} else {
			f, ok := v.(float64)
			if !ok {
				return fmt.Errorf("row %d: invalid value %v of type %T for numeric column %s", m.rows, v, v, c.Name)
			}
			row[c.Name] = f
		}
	}
	for _, c := range m.columns {
		if c.IsFactor() {
			m.categorical[c.Name] = append(m.categorical[c.Name], row[c.Name].(int))
		} else {
			m.numeric[c.Name] = append(m.numeric[c.Name], row[c.Name].(float64))
		}
	}
	m.rows++
	return nil
}

/*
NRows returns the number of rows added to the matrix.
*/
func (m *Matrix) NRows() int {
	return m.rows
}

/*
PredictorFrame takes the name of the response column and returns the
rank-encoded frame over every other column, together with the specs of
those columns in predictor order, or an error if the response is not a
column of the matrix.
*/
func (m *Matrix) PredictorFrame(response string) (*frame.Frame, []frame.ColumnSpec, error) {
	if _, err := m.column(response); err != nil {
		return nil, nil, err
	}
	b := frame.NewBuilder(m.rows)
	var predictors []frame.ColumnSpec
	for _, c := range m.columns {
		if c.Name == response {
			continue
		}
		var err error
		if c.IsFactor() {
			err = b.Categorical(c.Name, m.categorical[c.Name], len(c.Categories))
		} else {
			err = b.Numeric(c.Name, m.numeric[c.Name], c.Mono)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("encoding column %s: %v", c.Name, err)
		}
		predictors = append(predictors, c)
	}
	if len(predictors) == 0 {
		return nil, nil, fmt.Errorf("no predictor columns besides response %s", response)
	}
	return b.Frame(), predictors, nil
}

/*
ResponseSet takes the name of the response column and a bag
multiplicity vector and returns the bagged sample Set over that column:
a regression set when the column is numeric, a classification set when
it is categorical. An error is returned if the response is not a column
of the matrix or the set cannot be bagged.
*/
func (m *Matrix) ResponseSet(response string, counts []int) (*Set, error) {
	c, err := m.column(response)
	if err != nil {
		return nil, err
	}
	if c.IsFactor() {
		return NewClassification(m.categorical[c.Name], len(c.Categories), counts)
	}
	return NewRegression(m.numeric[c.Name], counts)
}

func (m *Matrix) column(name string) (frame.ColumnSpec, error) {
	for _, c := range m.columns {
		if c.Name == name {
			return c, nil
		}
	}
	return frame.ColumnSpec{}, fmt.Errorf("column %s is not defined", name)
}

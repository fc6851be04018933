/*
Package yaml provides methods to parse frame.ColumnSpec declarations,
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"
	"sort"

	"github.com/pbanos/arboretum/frame"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadColumns takes a slice of bytes with a column specification in YML
and returns a slice of column specs parsed from it or an error.
The YML is expected to be an object containing a columns property. The
value for this should be an object with a property for each column with
its name and either a string value of 'numeric', 'increasing' or
'decreasing' for numeric columns, the latter two constraining splits on
the column to the named direction, or a list of valid category values
for categorical columns. Columns are returned sorted by name so the
resulting predictor order does not depend on YML map iteration.
*/
func ReadColumns(md []byte) ([]frame.ColumnSpec, error) {
	metadata := struct {
		Columns map[string]interface{}
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml columns: %v", err)
	}
	if metadata.Columns == nil {
		return nil, fmt.Errorf("metadata file has no column information")
	}
	columns := []frame.ColumnSpec{}
	for cn, vs := range metadata.Columns {
		switch values := vs.(type) {
		case string:
			var mono int8
			switch values {
			case "numeric":
			case "increasing":
				mono = 1
			case "decreasing":
				mono = -1
			default:
				return nil, fmt.Errorf("invalid numeric declaration %q for column %s", values, cn)
			}
			columns = append(columns, frame.ColumnSpec{Name: cn, Mono: mono})
		case []interface{}:
			stringVs := []string{}
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			columns = append(columns, frame.ColumnSpec{Name: cn, Categories: stringVs})
		case []string:
			columns = append(columns, frame.ColumnSpec{Name: cn, Categories: values})
		default:
			return nil, fmt.Errorf("invalid column declaration of type %T", vs)
		}
	}
	sort.Slice(columns, func(i, j int) bool {
		return columns[i].Name < columns[j].Name
	})
	return columns, nil
}

/*
ReadColumnsFromFile takes a filepath string, reads its contents and uses
ReadColumns to parse it and return a slice of parsed column specs or an
error. If the file indicated by the filepath cannot be opened for
reading an error will be returned.
*/
func ReadColumnsFromFile(filepath string) ([]frame.ColumnSpec, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading columns yml file %s: %v", filepath, err)
	}
	columns, err := ReadColumns(md)
	if err != nil {
		err = fmt.Errorf("parsing columns yml file %s: %v", filepath, err)
	}
	return columns, err
}

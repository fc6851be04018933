package sqlite3adapter

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/arboretum/sample/sqlsample"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and a maximum number of
open connections (0 for no limit) and returns an sqlsample.Adapter that
works on the file's database or an error if it fails to open as an
sqlite3 database.
*/
func New(path string, maxConns int) (sqlsample.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as column name`, name)
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`column name '%s' contains invalid character '"'`, name)
	}
	return name, nil
}

func (a *adapter) CountRows(table string) (int, error) {
	rows, err := a.db.Query(fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, table))
	if err != nil {
		return 0, err
	}
	if !rows.Next() {
		return 0, rows.Err()
	}
	var count int
	err = rows.Scan(&count)
	if err != nil {
		return 0, err
	}
	err = rows.Close()
	return count, err
}

func (a *adapter) IterateOnRows(table string, numericColumns, categoricalColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	var queryBuffer bytes.Buffer
	queryBuffer.WriteString(`SELECT "`)
	queryBuffer.WriteString(strings.Join(numericColumns, `", "`))
	if len(numericColumns) > 0 && len(categoricalColumns) > 0 {
		queryBuffer.WriteString(`", "`)
	}
	queryBuffer.WriteString(strings.Join(categoricalColumns, `", "`))
	queryBuffer.WriteString(fmt.Sprintf(`" FROM "%s"`, table))
	rows, err := a.db.Query(queryBuffer.String())
	if err != nil {
		return err
	}
	for j := 0; rows.Next(); j++ {
		rawRow := make(map[string]interface{})
		numericValues := make([]sql.NullFloat64, len(numericColumns))
		categoricalValues := make([]sql.NullString, len(categoricalColumns))
		values := make([]interface{}, 0, len(numericColumns)+len(categoricalColumns))
		for i := range numericValues {
			values = append(values, &numericValues[i])
		}
		for i := range categoricalValues {
			values = append(values, &categoricalValues[i])
		}
		err = rows.Scan(values...)
		if err != nil {
			return err
		}
		for i, c := range numericColumns {
			if !numericValues[i].Valid {
				return fmt.Errorf("row %d: NULL value for column %s", j, c)
			}
			rawRow[c] = numericValues[i].Float64
		}
		for i, c := range categoricalColumns {
			if !categoricalValues[i].Valid {
				return fmt.Errorf("row %d: NULL value for column %s", j, c)
			}
			rawRow[c] = categoricalValues[i].String
		}
		ok, err := lambda(j, rawRow)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	err = rows.Err()
	if err != nil {
		return err
	}
	return rows.Close()
}

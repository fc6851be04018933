package frame

/*
ColumnSpec describes one raw training column before encoding: its name,
its categories when categorical (nil for numeric columns) and, for
numeric columns, an optional monotonicity sign constraining splits on
the column.
*/
type ColumnSpec struct {
	Name       string
	Categories []string
	Mono       int8
}

/*
IsFactor returns whether the column is categorical.
*/
func (c ColumnSpec) IsFactor() bool {
	return c.Categories != nil
}

/*
CategoryCode takes a raw category value and returns its code in the
column's category list, or -1 if the value is not a category of the
column.
*/
func (c ColumnSpec) CategoryCode(value string) int {
	for i, cat := range c.Categories {
		if cat == value {
			return i
		}
	}
	return -1
}

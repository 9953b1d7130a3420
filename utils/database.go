package utils

import (
	"reflect"
)

// ColumnList returns the list of "db" struct tags of T, in declaration order.
// Used by dbmodels to keep SELECT column lists in sync with the row structs.
func ColumnList[T any](prefixes ...string) []string {
	var value T
	t := reflect.TypeOf(value)

	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}
		for _, prefix := range prefixes {
			tag = prefix + "." + tag
		}
		columns = append(columns, tag)
	}
	return columns
}

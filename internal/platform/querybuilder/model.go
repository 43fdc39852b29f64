package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT from the `db` tags of a struct row.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.Indirect(reflect.ValueOf(model))
	if !value.IsValid() {
		return "", nil, fmt.Errorf("model cannot be nil")
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	insert := InsertInto(table).Suffix(suffix)
	var values []any
	for _, field := range reflect.VisibleFields(value.Type()) {
		column, ok := dbColumn(field)
		if !ok {
			continue
		}
		insert.columns = append(insert.columns, column)
		values = append(values, value.FieldByIndex(field.Index).Interface())
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}
	return insert.Values(values...).ToSQL()
}

func dbColumn(field reflect.StructField) (string, bool) {
	if !field.IsExported() || field.Anonymous {
		return "", false
	}
	column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
	column = strings.TrimSpace(column)
	if column == "" || column == "-" {
		return "", false
	}
	return column, true
}

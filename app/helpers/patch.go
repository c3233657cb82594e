package helpers

import (
	"reflect"
)

// PatchColumns turns a struct whose fields are tagged `patch:"column"` into
// a column/value map holding only the fields that were set. Pointer, slice
// and map fields count when non-nil; plain fields are always included.
func PatchColumns(patch any) map[string]any {
	cols := map[string]any{}

	v := reflect.ValueOf(patch)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return cols
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return cols
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		column := t.Field(i).Tag.Get("patch")
		if column == "" || column == "-" {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Pointer:
			if !fv.IsNil() {
				cols[column] = fv.Elem().Interface()
			}
		case reflect.Slice, reflect.Map:
			if !fv.IsNil() {
				cols[column] = fv.Interface()
			}
		default:
			cols[column] = fv.Interface()
		}
	}
	return cols
}

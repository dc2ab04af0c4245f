package migrate

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// FillEmpty copies fields from seed into dst wherever the dst field is empty:
// an empty string, a nil pointer, a nil or empty slice, or a zero time.
// Numbers and booleans are never considered empty, so a persisted 0 stays 0.
// Embedded and nested structs are walked field by field. dst must be a
// non-nil pointer to a struct of the same type as seed.
func FillEmpty[T any](dst *T, seed T) int {
	if dst == nil {
		return 0
	}
	return fillValue(reflect.ValueOf(dst).Elem(), reflect.ValueOf(seed))
}

func fillValue(dst, src reflect.Value) int {
	if dst.Type() == timeType {
		if dst.Interface().(time.Time).IsZero() && !src.Interface().(time.Time).IsZero() {
			dst.Set(src)
			return 1
		}
		return 0
	}
	switch dst.Kind() {
	case reflect.Struct:
		n := 0
		for i := 0; i < dst.NumField(); i++ {
			if !dst.Type().Field(i).IsExported() {
				continue
			}
			n += fillValue(dst.Field(i), src.Field(i))
		}
		return n
	case reflect.String:
		if dst.Len() == 0 && src.Len() > 0 {
			dst.SetString(src.String())
			return 1
		}
	case reflect.Pointer:
		if dst.IsNil() && !src.IsNil() {
			cp := reflect.New(src.Type().Elem())
			cp.Elem().Set(src.Elem())
			dst.Set(cp)
			return 1
		}
	case reflect.Slice:
		if dst.Len() == 0 && src.Len() > 0 {
			cp := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
			reflect.Copy(cp, src)
			dst.Set(cp)
			return 1
		}
	}
	return 0
}

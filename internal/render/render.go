// Package render converts AWS SDK output shapes into plain JSON-ready values
// whose keys follow the service's own wire casing.
package render

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aws/smithy-go/document"
)

// KeyStyle selects how exported Go field names become map keys.
type KeyStyle int

const (
	// LowerCamel matches REST-JSON services such as FIS and AWS Config.
	LowerCamel KeyStyle = iota
	// Pascal matches query and JSON-1.0 services such as CloudFormation and
	// Resource Explorer.
	Pascal
)

var timeType = reflect.TypeOf(time.Time{})

// Value renders v. Nil pointers, nil collections and unset enums are omitted
// from structs; ResultMetadata is always dropped. Times render as RFC 3339.
func Value(v any, style KeyStyle) any {
	return shape(reflect.ValueOf(v), style)
}

// Map renders a struct (or pointer to one) as a map. It returns an empty map
// for nil input.
func Map(v any, style KeyStyle) map[string]any {
	if out, ok := Value(v, style).(map[string]any); ok {
		return out
	}
	return map[string]any{}
}

// Slice renders each element of items.
func Slice[T any](items []T, style KeyStyle) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, Value(item, style))
	}
	return out
}

func shape(v reflect.Value, style KeyStyle) any {
	if !v.IsValid() {
		return nil
	}
	if v.Type() == timeType {
		return v.Interface().(time.Time).UTC().Format(time.RFC3339)
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Interface && v.CanInterface() {
			if doc, ok := v.Interface().(document.Marshaler); ok {
				return decodeDocument(doc)
			}
		}
		return shape(v.Elem(), style)
	case reflect.Struct:
		return shapeStruct(v, style)
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[keyString(iter.Key())] = shape(iter.Value(), style)
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, shape(v.Index(i), style))
		}
		return out
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	if v.CanInterface() {
		return v.Interface()
	}
	return nil
}

func shapeStruct(v reflect.Value, style KeyStyle) map[string]any {
	t := v.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Name == "ResultMetadata" {
			continue
		}
		fv := v.Field(i)
		if omit(fv) {
			continue
		}
		out[fieldKey(field.Name, style)] = shape(fv, style)
	}
	return out
}

func omit(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	case reflect.String:
		// Non-pointer strings in SDK shapes are enums; empty means unset.
		return v.Len() == 0
	}
	return false
}

func fieldKey(name string, style KeyStyle) string {
	if style == Pascal {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

func keyString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

// decodeDocument renders a smithy document as plain JSON values. Lazy
// documents built in process only support marshaling, so the document is
// always round-tripped through its JSON encoding. A document that cannot be
// decoded renders as an object carrying the error.
func decodeDocument(doc document.Marshaler) any {
	raw, err := doc.MarshalSmithyDocument()
	if err == nil {
		var out any
		if err = json.Unmarshal(raw, &out); err == nil {
			return out
		}
	}
	if u, ok := doc.(document.Unmarshaler); ok {
		var out any
		if uerr := u.UnmarshalSmithyDocument(&out); uerr == nil {
			return out
		}
	}
	return map[string]any{"documentError": err.Error()}
}

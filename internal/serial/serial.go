// Package serial reads and writes binary encodings of plans and other
// values implementing encoding.BinaryMarshaler.
package serial

import (
	"encoding"
	"fmt"
	"os"
	"reflect"
)

// TryMarshal attempts to marshal an object if it implements BinaryMarshaler.
// It handles both pointer and value receiver implementations.
func TryMarshal(v any) ([]byte, error) {
	if marshaler, ok := v.(encoding.BinaryMarshaler); ok {
		return marshaler.MarshalBinary()
	}
	pv := reflect.ValueOf(v)
	if pv.CanAddr() {
		if marshaler, ok := pv.Addr().Interface().(encoding.BinaryMarshaler); ok {
			return marshaler.MarshalBinary()
		}
	}
	return nil, fmt.Errorf("type %T (or pointer) does not implement encoding.BinaryMarshaler", v)
}

// TryUnmarshal attempts to unmarshal data into a pointer if it implements BinaryUnmarshaler.
// v must be a non-nil pointer to the target object.
func TryUnmarshal(v any, data []byte) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("TryUnmarshal target must be a non-nil pointer, got %T", v)
	}
	if unmarshaler, ok := v.(encoding.BinaryUnmarshaler); ok {
		return unmarshaler.UnmarshalBinary(data)
	}
	return fmt.Errorf("type %T does not implement encoding.BinaryUnmarshaler", v)
}

// Save marshals v and writes it to path.
func Save(path string, v any) error {
	data, err := TryMarshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load reads path and unmarshals it into v.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := TryUnmarshal(v, data); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

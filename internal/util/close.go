package util

import (
	"io"
	"reflect"
)

// CloseWithErr closes a resource and logs a failure with the resource name.
// Nil closers, including typed nil pointers, are ignored.
func CloseWithErr(closer io.Closer, name string) {
	if closer == nil {
		return
	}
	if v := reflect.ValueOf(closer); v.Kind() == reflect.Pointer && v.IsNil() {
		return
	}
	err := closer.Close()
	if err == nil {
		return
	}
	if name == "" {
		name = reflect.TypeOf(closer).String()
	}
	current().Warnw("close failed", "resource", name, "error", err)
}

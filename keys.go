package memocache

import (
	"encoding"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/memocache/internal/util"
)

// keyEnc canonicalizes arguments: sorted map keys, shortest integer and float
// forms, pointers followed. Times keep sub-second precision.
var keyEnc = func() cbor.EncMode {
	eo := cbor.CoreDetEncOptions()
	eo.Time = cbor.TimeUnixDynamic
	em, err := eo.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// BuildKey derives the storage key for a call with the given positional arguments.
// Arguments that are equal by value produce the same key in every process.
func BuildKey(namespace string, args ...any) (string, error) {
	if namespace == "" {
		return "", ErrEmptyNamespace
	}
	if args == nil {
		args = []any{}
	}
	for i, a := range args {
		if err := checkLossless(reflect.ValueOf(a), 0); err != nil {
			return "", &ArgumentError{Index: i, Err: err}
		}
	}
	b, err := keyEnc.Marshal(args)
	if err != nil {
		return "", &ArgumentError{Index: offending(args), Err: err}
	}
	return util.Digest(namespace, b), nil
}

// BuildItemKey derives the storage key for one batch item.
func BuildItemKey(namespace string, item any) (string, error) {
	if namespace == "" {
		return "", ErrEmptyNamespace
	}
	if err := checkLossless(reflect.ValueOf(item), 0); err != nil {
		return "", &ArgumentError{Index: -1, Err: err}
	}
	b, err := keyEnc.Marshal(item)
	if err != nil {
		return "", &ArgumentError{Index: -1, Err: err}
	}
	return util.Digest(namespace, b), nil
}

func offending(args []any) int {
	for i, a := range args {
		if _, err := keyEnc.Marshal(a); err != nil {
			return i
		}
	}
	return -1
}

func itemKeys[K comparable](ns string, items []K) ([]string, error) {
	keys := make([]string, len(items))
	for i, it := range items {
		k, err := BuildItemKey(ns, it)
		if err != nil {
			var ae *ArgumentError
			if errors.As(err, &ae) {
				ae.Index = i
			}
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

const maxKeyDepth = 64

var (
	typeTime            = reflect.TypeOf(time.Time{})
	typeBigInt          = reflect.TypeOf(big.Int{})
	typeCBORMarshaler   = reflect.TypeOf((*cbor.Marshaler)(nil)).Elem()
	typeBinaryMarshaler = reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem()
)

// checkLossless rejects values the encoder would drop parts of: struct fields
// that are unexported or tagged "-". Two such values could differ only in the
// dropped part and still share a key.
func checkLossless(v reflect.Value, depth int) error {
	if depth > maxKeyDepth {
		return errors.New("argument nested too deeply")
	}
	if !v.IsValid() {
		return nil
	}
	t := v.Type()
	if selfEncoding(t) {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkLossless(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkLossless(v.Index(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Map:
		it := v.MapRange()
		for it.Next() {
			if err := checkLossless(it.Key(), depth+1); err != nil {
				return err
			}
			if err := checkLossless(it.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if droppedField(f) {
				return fmt.Errorf("%s.%s is not encoded", t, f.Name)
			}
			if err := checkLossless(v.Field(i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// selfEncoding reports types whose encoding does not come from their fields.
func selfEncoding(t reflect.Type) bool {
	if t == typeTime || t == typeBigInt {
		return true
	}
	return t.Implements(typeCBORMarshaler) || t.Implements(typeBinaryMarshaler) ||
		reflect.PointerTo(t).Implements(typeCBORMarshaler) || reflect.PointerTo(t).Implements(typeBinaryMarshaler)
}

func droppedField(f reflect.StructField) bool {
	if tag, ok := f.Tag.Lookup("cbor"); ok {
		if tag == "-" {
			return true
		}
	} else if f.Tag.Get("json") == "-" {
		return true
	}
	// embedded structs promote their exported fields, which are checked on the walk
	return !f.IsExported() && !(f.Anonymous && f.Type.Kind() == reflect.Struct)
}

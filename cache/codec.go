package cache

import (
	"bytes"
	"context"
	"reflect"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns values into the blobs held by a Store.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// msgpackCodec encodes with msgpack, reading struct names from json tags so
// one set of tags serves both the wire format and the cache.
type msgpackCodec struct{}

// NewMsgpackCodec returns the default Codec.
func NewMsgpackCodec() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v. msgpack restores timestamps in the local
// zone; they are moved back to UTC so a decoded value equals the one encoded.
func (msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(v); err != nil {
		return err
	}
	utcTimes(reflect.ValueOf(v))
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func utcTimes(v reflect.Value) {
	if v.Type() == timeType {
		if v.CanSet() {
			v.Set(reflect.ValueOf(v.Interface().(time.Time).UTC()))
		}
		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			utcTimes(v.Elem())
		}
	case reflect.Interface:
		if v.IsNil() || !v.CanSet() {
			return
		}
		elem := reflect.New(v.Elem().Type()).Elem()
		elem.Set(v.Elem())
		utcTimes(elem)
		v.Set(elem)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				utcTimes(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			utcTimes(v.Index(i))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			elem := reflect.New(v.Type().Elem()).Elem()
			elem.Set(iter.Value())
			utcTimes(elem)
			v.SetMapIndex(iter.Key(), elem)
		}
	}
}

// GetValue reads and decodes key. Undecodable entries are deleted and
// reported as a miss.
func GetValue[T any](ctx context.Context, store Store, codec Codec, key string) (T, bool) {
	var zero T

	data, ok := store.Get(ctx, key)
	if !ok {
		return zero, false
	}

	var value T
	if err := codec.Unmarshal(data, &value); err != nil {
		store.Delete(ctx, key)
		return zero, false
	}
	return value, true
}

// SetValue encodes value and stores it under key. It reports whether the
// value reached the cache.
func SetValue[T any](ctx context.Context, store Store, codec Codec, key string, value T, ttl time.Duration) bool {
	data, err := codec.Marshal(value)
	if err != nil {
		return false
	}
	return store.Set(ctx, key, data, ttl)
}

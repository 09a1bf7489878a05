// Package jsonutil provides JSON helpers shared across the gateway.
package jsonutil

import (
	"bytes"
	"encoding/json"
)

// Object is a JSON object that marshals its keys in insertion order.
//
// encoding/json sorts map keys alphabetically, which would scramble
// schema results whose column order must follow ordinal position. Object
// keeps the order keys were Set in, the way the upstream database reports
// them.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty ordered object. It marshals as {}.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// Set adds or replaces a key. A replaced key keeps its original position.
func (o *Object) Set(key string, val any) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// MarshalJSON implements json.Marshaler, preserving insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.vals[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

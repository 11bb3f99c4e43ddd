package studyhub

import (
	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/typed"
)

// Collection is a typed list of entities persisted as one JSON array.
type Collection[T any, P typed.EntityPtr[T]] = typed.Collection[T, P]

// Value is a typed single value persisted as JSON.
type Value[V any] = typed.Value[V]

// NewCollection wraps the array stored under key.
func NewCollection[T any, P typed.EntityPtr[T]](store core.Store, key string, opts ...typed.Option) *Collection[T, P] {
	return typed.NewCollection[T, P](store, key, opts...)
}

// NewValue wraps the value stored under key. fallback supplies the value used
// when the key is absent or malformed.
func NewValue[V any](store core.Store, key string, fallback func() V, opts ...typed.Option) *Value[V] {
	return typed.NewValue(store, key, fallback, opts...)
}

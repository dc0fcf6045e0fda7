package weft

import (
	"fmt"
	"strconv"
)

// keyedValue attaches an explicit reconciliation key to a renderable.
type keyedValue struct {
	key   any
	value any
}

// Keyed wraps a renderable value with an explicit list key. During list
// reconciliation the key matches the entry against the previous pass,
// preserving node identity across reorders. Outside a list the wrapper
// is transparent.
func Keyed(key, value any) any {
	return keyedValue{key: key, value: value}
}

// deriveKey returns the namespaced reconciliation key for a list entry.
// Explicit keys and positional keys live in distinct namespaces, so
// inserting or removing keyed siblings never perturbs the positional
// identity of unkeyed ones.
func deriveKey(item any, unkeyedSeen int) (key string, value any, keyed bool) {
	if kv, ok := item.(keyedValue); ok {
		return "key:" + keyString(kv.key), kv.value, true
	}
	return "index:" + strconv.Itoa(unkeyedSeen), item, false
}

// keyString renders an explicit key value to its map form.
func keyString(key any) string {
	if s, ok := formatScalar(key); ok {
		return s
	}
	return fmt.Sprintf("%v", key)
}

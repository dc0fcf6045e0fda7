package weft

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/vango-go/weft/internal/errors"
)

// Kind is the placement kind discriminator: where in the markup a value
// hole sits determines how values are converted.
type Kind uint8

const (
	KindElement   Kind = iota // Child content position
	KindAttribute             // Attribute value position
	KindTag                   // Whole-attribute (property bag) position
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Action is a resolved, zero-argument renderable unit. Invoking it
// inside a render yields either terminal Content or another value to be
// resolved further, which is how deferred and self-composing renders
// chain.
type Action func() any

// Factory converts a value into an Action for one placement kind, or
// declines by returning false.
type Factory func(value any) (Action, bool)

// factories holds the per-kind conversion registries. Resolution walks
// each registry newest-first, so later registrations shadow earlier
// ones for the value shapes they accept.
var factories [3][]Factory

// Define registers a conversion factory for a placement kind. Factories
// registered later take precedence.
func Define(kind Kind, f Factory) {
	factories[kind] = append(factories[kind], f)
}

// toAction resolves a raw value to an Action. Values that are already
// zero-argument callables are used verbatim.
func toAction(kind Kind, value any) (Action, error) {
	switch a := value.(type) {
	case Action:
		return a, nil
	case func() any:
		return a, nil
	}
	fs := factories[kind]
	for i := len(fs) - 1; i >= 0; i-- {
		if act, ok := fs[i](value); ok {
			return act, nil
		}
	}
	return nil, errors.New("E201").
		WithDetailf("no %s conversion for %T (%v)", kind, value, value)
}

func init() {
	Define(KindElement, elementBuiltin)
	Define(KindAttribute, attributeBuiltin)
	Define(KindTag, tagBuiltin)
}

// elementBuiltin accepts the value shapes renderable as child content:
// nil, scalars (as text), slices (as reconciled lists), keyed wrappers,
// and already-terminal Content.
func elementBuiltin(v any) (Action, bool) {
	if v == nil {
		return func() any { return Empty }, true
	}
	switch x := v.(type) {
	case Content:
		return func() any { return x }, true
	case keyedValue:
		// A key outside a list carries no identity; render the payload.
		return func() any { return x.value }, true
	case []any:
		return listAction(x), true
	}
	if s, ok := formatScalar(v); ok {
		return func() any { return &textContent{text: s} }, true
	}
	// Typed slices reconcile as lists too. []byte stays out: it is a
	// string in disguise, not a sequence of renderables.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return listAction(items), true
	}
	return nil, false
}

// listAction defers list construction until the render's place is
// ambient, so the list can bind its root.
func listAction(items []any) Action {
	return func() any {
		place := activePlace()
		if place == nil {
			return errors.Newf(errors.CategoryRuntime, "list action invoked outside a render")
		}
		return &listContent{root: place.root, pending: items}
	}
}

// attributeBuiltin accepts nil and scalars, coercing them to an
// attribute string.
func attributeBuiltin(v any) (Action, bool) {
	if v == nil {
		return func() any { return &attrText{} }, true
	}
	if s, ok := formatScalar(v); ok {
		return func() any { return &attrText{value: s} }, true
	}
	return nil, false
}

// tagBuiltin accepts plain key/value maps as an element-level property
// bag. Entries with nil values are dropped, which removes the attribute
// on the next patch.
func tagBuiltin(v any) (Action, bool) {
	switch m := v.(type) {
	case map[string]string:
		return func() any {
			props := make(map[string]string, len(m))
			for k, val := range m {
				props[k] = val
			}
			return &tagProps{props: props}
		}, true
	case map[string]any:
		return func() any {
			props := make(map[string]string, len(m))
			for k, val := range m {
				if val == nil {
					continue
				}
				s, ok := formatScalar(val)
				if !ok {
					return errors.New("E201").
						WithDetailf("no attribute conversion for %T in property bag key %q", val, k)
				}
				props[k] = s
			}
			return &tagProps{props: props}
		}, true
	}
	return nil, false
}

// formatScalar converts scalar values to their text form.
func formatScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		if x {
			return "true", true
		}
		return "false", true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

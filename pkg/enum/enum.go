package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	enumMutex   sync.RWMutex
	enumManager = map[reflect.Type]any{}
)

type enum[T comparable] struct {
	toEnum map[string]T
	values []T
}

// New registers value as a member of the enum type T and returns it, so that
// enum members can be declared as package-level variables.
func New[T comparable](value T) T {
	enumMutex.Lock()
	defer enumMutex.Unlock()

	t := reflect.TypeOf(value)
	e, ok := enumManager[t].(*enum[T])
	if !ok {
		e = &enum[T]{toEnum: make(map[string]T)}
		enumManager[t] = e
	}

	key := fmt.Sprint(value)
	if _, existed := e.toEnum[key]; !existed {
		e.values = append(e.values, value)
	}
	e.toEnum[key] = value

	return value
}

// ToEnum parses s as a registered member of T.
func ToEnum[T comparable](s string) (T, error) {
	enumMutex.RLock()
	defer enumMutex.RUnlock()

	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT)].(*enum[T])
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// Values returns all registered members of T in declaration order.
func Values[T comparable]() []T {
	enumMutex.RLock()
	defer enumMutex.RUnlock()

	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT)].(*enum[T])
	if !ok {
		return nil
	}

	return append([]T(nil), e.values...)
}

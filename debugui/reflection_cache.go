package debugui

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// FieldInfo describes one exported struct field.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	IsStruct  bool
	IsSlice   bool
	IsMap     bool
	// Embedded fields are flattened into their parent by Describe.
	Embedded bool
}

// ReflectionCache memoizes the exported fields of struct types.
type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fieldCache[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Pointer
			if isPointer {
				fieldType = fieldType.Elem()
			}

			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Type:      fieldType,
				Index:     i,
				IsPointer: isPointer,
				IsStruct:  fieldType.Kind() == reflect.Struct,
				IsSlice:   fieldType.Kind() == reflect.Slice,
				IsMap:     fieldType.Kind() == reflect.Map,
				Embedded:  field.Anonymous,
			})
		}
	}

	rc.fieldCache[t] = fields
	return fields
}

var globalReflectionCache = NewReflectionCache()

// Node is one line of a described value. Leaves carry Value; branches
// carry Children.
type Node struct {
	Name     string
	Value    string
	Children []Node
}

// Describe turns v into a tree of named fields. Embedded structs are
// flattened into their parent; slices and maps are summarised by length;
// types with a String method or time values are printed as leaves.
func Describe(name string, v any) Node {
	return describe(globalReflectionCache, name, reflect.ValueOf(v))
}

var (
	stringerType = reflect.TypeFor[fmt.Stringer]()
	timeType     = reflect.TypeFor[time.Time]()
)

func describe(rc *ReflectionCache, name string, val reflect.Value) Node {
	if !val.IsValid() {
		return Node{Name: name, Value: "<invalid>"}
	}
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return Node{Name: name, Value: "nil"}
		}
		val = val.Elem()
	}
	if val.Type() != timeType && val.Type().Implements(stringerType) {
		return Node{Name: name, Value: val.Interface().(fmt.Stringer).String()}
	}

	switch val.Kind() {
	case reflect.Struct:
		if val.Type() == timeType {
			t := val.Interface().(time.Time)
			if t.IsZero() {
				return Node{Name: name, Value: "-"}
			}
			return Node{Name: name, Value: t.Format(time.RFC3339)}
		}
		node := Node{Name: name}
		for _, field := range rc.GetFields(val.Type()) {
			child := describe(rc, field.Name, val.Field(field.Index))
			if field.Embedded && child.Children != nil {
				node.Children = append(node.Children, child.Children...)
				continue
			}
			node.Children = append(node.Children, child)
		}
		if node.Children == nil {
			node.Children = []Node{}
		}
		return node

	case reflect.Slice, reflect.Array:
		return Node{Name: name, Value: fmt.Sprintf("[%d items]", val.Len())}

	case reflect.Map:
		return Node{Name: name, Value: fmt.Sprintf("map[%d items]", val.Len())}

	default:
		return Node{Name: name, Value: fmt.Sprintf("%v", val.Interface())}
	}
}

package isomsg

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

// bindTag is the struct tag naming the holder path of a field:
//
//	type Auth struct {
//	    MTI string `isomsg:"mti"`
//	    PAN string `isomsg:"fields.pan"`
//	}
const bindTag = "isomsg"

func init() {
	sentinel.Tag(bindTag)
}

// Binder copies values between structs of type T and holders of one schema.
// Binders are immutable after NewBinder and safe for concurrent use.
type Binder[T any] struct {
	schema   *Field
	typeName string
	plans    []bindPlan
}

// bindPlan maps one struct field to one schema leaf.
type bindPlan struct {
	index      []int    // reflect.Value.FieldByIndex access path
	ptrIndices []int    // positions in index where a pointer is dereferenced
	name       string   // Go field name for error messages
	path       []string // holder path
	leaf       *Field
	kind       reflect.Kind
}

// NewBinder scans T with sentinel and checks that every isomsg tag resolves
// to a leaf of schema. Nested structs and pointers to structs are followed;
// tagged fields must be strings, byte slices or integers.
func NewBinder[T any](schema *Field) (*Binder[T], error) {
	spec := sentinel.Scan[T]()
	b := &Binder[T]{schema: schema, typeName: spec.TypeName}
	if err := b.buildPlans(spec, nil, nil, ""); err != nil {
		return nil, err
	}
	return b, nil
}

// Schema returns the schema the binder resolves paths against.
func (b *Binder[T]) Schema() *Field {
	return b.schema
}

func (b *Binder[T]) buildPlans(spec sentinel.Metadata, parentIndex, ptrIndices []int, prefix string) error {
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if prefix != "" {
			fullName = prefix + "." + field.Name
		}

		tag, tagged := field.Tags[bindTag]
		if tag == "-" {
			continue
		}

		if !tagged {
			switch {
			case field.Kind == sentinel.KindStruct:
				if nested := scanNestedType(field.ReflectType); nested != nil {
					if err := b.buildPlans(*nested, fullIndex, ptrIndices, fullName); err != nil {
						return err
					}
				}
			case field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Kind() == reflect.Struct:
				if nested := scanNestedType(field.ReflectType.Elem()); nested != nil {
					ptrs := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
					if err := b.buildPlans(*nested, fullIndex, ptrs, fullName); err != nil {
						return err
					}
				}
			}
			continue
		}

		path := strings.Split(tag, ".")
		leaf, ok := b.schema.Lookup(path...)
		if !ok {
			return newPathError(ErrUnknownField, path)
		}
		if !leaf.IsLeaf() {
			return newPathError(ErrNotLeaf, path)
		}
		kind := field.ReflectType.Kind()
		if !bindable(field.ReflectType) {
			return newDefinitionError(ErrInvalidKind, tag,
				fmt.Sprintf("%s.%s has unsupported type %s", b.typeName, fullName, field.ReflectType))
		}
		b.plans = append(b.plans, bindPlan{
			index:      fullIndex,
			ptrIndices: ptrIndices,
			name:       fullName,
			path:       path,
			leaf:       leaf,
			kind:       kind,
		})
	}
	return nil
}

func bindable(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Slice:
		return rt.Elem().Kind() == reflect.Uint8
	}
	return false
}

// scanNestedType scans a nested struct type and returns its metadata.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if v, ok := sf.Tag.Lookup(bindTag); ok {
			fm.Tags[bindTag] = v
		}
		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}
		spec.Fields = append(spec.Fields, fm)
	}
	return &spec
}

// Store assigns the non-zero tagged fields of obj into h. Either every
// field is assigned or, on error, h keeps its previous values. Types
// implementing HolderStorer are called instead of using reflection.
func (b *Binder[T]) Store(h *Holder, obj *T) error {
	if h.schema != b.schema {
		return ErrSchemaMismatch
	}
	if s, ok := any(obj).(HolderStorer); ok {
		return s.StoreHolder(h)
	}

	scratch := &Holder{schema: h.schema, root: h.root.clone()}
	rv := reflect.ValueOf(obj).Elem()
	for _, plan := range b.plans {
		fv, ok := plan.get(rv, false)
		if !ok || fv.IsZero() {
			continue
		}
		var value any
		switch plan.kind {
		case reflect.String:
			value = fv.String()
		case reflect.Slice:
			value = append([]byte(nil), fv.Bytes()...)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			value = fv.Int()
		default:
			value = fv.Uint()
		}
		if err := scratch.SetValue(value, plan.path...); err != nil {
			return err
		}
	}
	h.root = scratch.root
	return nil
}

// Load copies the values present in h into the tagged fields of obj. Absent
// values leave their field untouched; nil struct pointers on the way to a
// present value are allocated. Types implementing HolderLoader are called
// instead of using reflection.
func (b *Binder[T]) Load(h *Holder, obj *T) error {
	if h.schema != b.schema {
		return ErrSchemaMismatch
	}
	if l, ok := any(obj).(HolderLoader); ok {
		return l.LoadHolder(h)
	}

	rv := reflect.ValueOf(obj).Elem()
	for _, plan := range b.plans {
		v := h.lookupPath(plan.path)
		if v == nil {
			continue
		}
		fv, _ := plan.get(rv, true)
		if err := plan.set(fv, v); err != nil {
			return err
		}
	}
	return nil
}

// get navigates to the plan's field, dereferencing pointers. With alloc,
// nil pointers are filled in; otherwise a nil pointer reports false.
func (p bindPlan) get(rv reflect.Value, alloc bool) (reflect.Value, bool) {
	if len(p.ptrIndices) == 0 {
		return rv.FieldByIndex(p.index), true
	}
	ptrSet := make(map[int]bool, len(p.ptrIndices))
	for _, idx := range p.ptrIndices {
		ptrSet[idx] = true
	}

	current := rv
	for i, idx := range p.index {
		current = current.Field(idx)
		if ptrSet[i] {
			if current.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				current.Set(reflect.New(current.Type().Elem()))
			}
			current = current.Elem()
		}
	}
	return current, true
}

// set converts the value of v into the Go field fv.
func (p bindPlan) set(fv reflect.Value, v *Value) error {
	fail := func(err error) error {
		return newCodecError(ErrInvalidValue, p.leaf.Path(), -1,
			fmt.Errorf("field %s: %w", p.name, err))
	}

	switch p.kind {
	case reflect.String:
		if s, ok := v.typed.(string); ok {
			fv.SetString(s)
		} else {
			fv.SetString(p.leaf.res.stringer.Convert(v.typed))
		}
	case reflect.Slice:
		if bs, ok := v.typed.([]byte); ok {
			fv.SetBytes(append([]byte(nil), bs...))
		} else {
			fv.SetBytes(v.Raw())
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toUint64(v.typed)
		if err != nil {
			return fail(err)
		}
		if n > math.MaxInt64 || fv.OverflowInt(int64(n)) {
			return fail(fmt.Errorf("%d overflows %s", n, fv.Type()))
		}
		fv.SetInt(int64(n))
	default:
		n, err := toUint64(v.typed)
		if err != nil {
			return fail(err)
		}
		if fv.OverflowUint(n) {
			return fail(fmt.Errorf("%d overflows %s", n, fv.Type()))
		}
		fv.SetUint(n)
	}
	return nil
}

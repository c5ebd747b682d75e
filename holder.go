package isomsg

import "errors"

// Holder binds a value tree to a schema. It assigns and reads values by
// path and drives Pack and Unpack.
//
// A Holder belongs to one message at a time and is not safe for concurrent
// use. Create one per in-flight message; the schema itself may be shared.
type Holder struct {
	schema *Field
	root   *Value
}

// New returns an empty holder for schema. The same holder can be filled
// with SetValue and packed, or filled by Unpack and read.
func New(schema *Field) *Holder {
	return &Holder{schema: schema}
}

// Schema returns the schema the holder is bound to.
func (h *Holder) Schema() *Field {
	return h.schema
}

// Root returns the root of the value tree, or nil when nothing is set.
func (h *Holder) Root() *Value {
	return h.root
}

// Reset discards every value.
func (h *Holder) Reset() {
	h.root = nil
}

// resolve maps a root-relative path onto schema fields, root first.
func (h *Holder) resolve(path []string) ([]*Field, error) {
	fields := make([]*Field, 0, len(path)+1)
	cur := h.schema
	fields = append(fields, cur)
	for _, name := range path {
		next, ok := cur.byName[name]
		if !ok {
			return nil, newPathError(ErrUnknownField, path)
		}
		fields = append(fields, next)
		cur = next
	}
	return fields, nil
}

// lookup returns the value at path, or nil when absent.
func (h *Holder) lookup(fields []*Field) *Value {
	cur := h.root
	for _, f := range fields[1:] {
		if cur == nil {
			return nil
		}
		cur = cur.child(f)
	}
	return cur
}

// lookupPath returns the value at path, or nil when the path is unknown or
// absent.
func (h *Holder) lookupPath(path []string) *Value {
	fields, err := h.resolve(path)
	if err != nil {
		return nil
	}
	return h.lookup(fields)
}

// SetValue encodes value with the field's body codec and stores it at path,
// creating intermediate nodes as needed. On error the tree is unchanged.
func (h *Holder) SetValue(value any, path ...string) error {
	fields, err := h.resolve(path)
	if err != nil {
		return err
	}
	target := fields[len(fields)-1]
	if !target.IsLeaf() {
		return newPathError(ErrNotLeaf, path)
	}
	raw, typed, err := encodeLeaf(target, value)
	if err != nil {
		return err
	}

	if h.root == nil {
		h.root = &Value{field: h.schema}
	}
	cur := h.root
	for _, f := range fields[1:] {
		cur = cur.ensureChild(f)
	}
	cur.raw = raw
	cur.typed = typed
	return nil
}

// encodeLeaf runs value through the body codec and decodes the result so the
// stored typed value is the same one Unpack would produce.
func encodeLeaf(f *Field, value any) ([]byte, any, error) {
	raw, err := f.res.body.Encode(value)
	if err != nil {
		return nil, nil, newCodecError(ErrInvalidValue, f.Path(), -1, err)
	}
	typed, err := f.res.body.Decode(raw)
	if err != nil {
		return nil, nil, newCodecError(ErrInvalidValue, f.Path(), -1, err)
	}
	return raw, typed, nil
}

// GetValue returns the typed value at path. It fails with ErrUnknownField
// when the schema has no such field and ErrNotFound when no value is set.
func (h *Holder) GetValue(path ...string) (any, error) {
	v, err := h.leaf(path)
	if err != nil {
		return nil, err
	}
	return v.typed, nil
}

// GetBytes returns a copy of the body bytes at path.
func (h *Holder) GetBytes(path ...string) ([]byte, error) {
	v, err := h.leaf(path)
	if err != nil {
		return nil, err
	}
	return v.Raw(), nil
}

// GetString returns the value at path rendered by the field's stringer.
func (h *Holder) GetString(path ...string) (string, error) {
	v, err := h.leaf(path)
	if err != nil {
		return "", err
	}
	return v.field.res.stringer.Convert(v.typed), nil
}

func (h *Holder) leaf(path []string) (*Value, error) {
	fields, err := h.resolve(path)
	if err != nil {
		return nil, err
	}
	if !fields[len(fields)-1].IsLeaf() {
		return nil, newPathError(ErrNotLeaf, path)
	}
	v := h.lookup(fields)
	if v == nil {
		return nil, newPathError(ErrNotFound, path)
	}
	return v, nil
}

// Has reports whether a value is present at path. Paths unknown to the
// schema report false.
func (h *Holder) Has(path ...string) bool {
	fields, err := h.resolve(path)
	if err != nil {
		return false
	}
	return h.lookup(fields) != nil
}

// Unset removes the value or subtree at path. Containers left without
// children are removed too. Unsetting an absent value is not an error.
func (h *Holder) Unset(path ...string) error {
	fields, err := h.resolve(path)
	if err != nil {
		return err
	}
	if len(fields) == 1 {
		h.root = nil
		return nil
	}
	chain := make([]*Value, 0, len(fields))
	cur := h.root
	for _, f := range fields[1 : len(fields)-1] {
		if cur == nil {
			return nil
		}
		chain = append(chain, cur)
		cur = cur.child(f)
	}
	if cur == nil {
		return nil
	}
	chain = append(chain, cur)
	cur.removeChild(fields[len(fields)-1])
	for i := len(chain) - 1; i > 0; i-- {
		if len(chain[i].children) > 0 {
			break
		}
		chain[i-1].removeChild(chain[i].field)
	}
	if len(h.root.children) == 0 {
		h.root = nil
	}
	return nil
}

// IsNotFound reports whether err means a valid path holds no value.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package isomsg

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// leafKey names the single entry of a snapshot whose schema root is a leaf.
const leafKey = "value"

// Export renders the value tree as nested maps, container names to maps and
// leaf names to the uppercase hex of their body bytes, and marshals it with
// c. Body bytes are exported rather than typed values so every codec
// round-trips losslessly.
func (h *Holder) Export(c Codec) (data []byte, err error) {
	name := h.schema.label()
	defer func() {
		emitExport(context.Background(), name, c.ContentType(), len(data), err)
	}()

	doc := h.Snapshot()
	data, err = c.Marshal(doc)
	if err != nil {
		sentinel := ErrMarshal
		if errors.Is(err, ErrEncrypt) {
			sentinel = ErrEncrypt
		}
		return nil, newSnapshotError(sentinel, c.ContentType(), err)
	}
	return data, nil
}

// Import unmarshals a snapshot produced by Export and replaces the value
// tree. Every leaf is decoded with its body codec; on error the holder
// keeps its previous values.
func (h *Holder) Import(c Codec, data []byte) (err error) {
	name := h.schema.label()
	defer func() {
		emitImport(context.Background(), name, c.ContentType(), len(data), err)
	}()

	var doc map[string]any
	if err := c.Unmarshal(data, &doc); err != nil {
		sentinel := ErrUnmarshal
		if errors.Is(err, ErrDecrypt) {
			sentinel = ErrDecrypt
		}
		return newSnapshotError(sentinel, c.ContentType(), err)
	}
	if err := h.Restore(doc); err != nil {
		return newSnapshotError(ErrUnmarshal, c.ContentType(), err)
	}
	return nil
}

// Snapshot returns the value tree in the map form used by Export. An empty
// holder yields an empty map.
func (h *Holder) Snapshot() map[string]any {
	doc := map[string]any{}
	if h.root == nil {
		return doc
	}
	if h.schema.IsLeaf() {
		doc[leafKey] = EncodeHex(h.root.raw)
		return doc
	}
	return snapshotChildren(h.root)
}

func snapshotChildren(v *Value) map[string]any {
	m := make(map[string]any, len(v.children))
	for _, c := range v.children {
		if c.field.IsLeaf() {
			m[c.field.name] = EncodeHex(c.raw)
			continue
		}
		m[c.field.name] = snapshotChildren(c)
	}
	return m
}

// Restore replaces the value tree with the contents of doc, in the map form
// returned by Snapshot.
func (h *Holder) Restore(doc map[string]any) error {
	if len(doc) == 0 {
		h.root = nil
		return nil
	}
	root := &Value{field: h.schema}
	if h.schema.IsLeaf() {
		raw, ok := doc[leafKey]
		if !ok || len(doc) != 1 {
			return newPathError(ErrUnknownField, sortedKeys(doc))
		}
		if err := restoreLeaf(root, raw); err != nil {
			return err
		}
		h.root = root
		return nil
	}
	if err := restoreChildren(root, doc, nil); err != nil {
		return err
	}
	h.root = root
	return nil
}

func restoreChildren(v *Value, doc map[string]any, path []string) error {
	// Sorted so the first error reported does not depend on map order.
	for _, name := range sortedKeys(doc) {
		childPath := append(append([]string(nil), path...), name)
		f, ok := v.field.byName[name]
		if !ok {
			return newPathError(ErrUnknownField, childPath)
		}
		cv := v.ensureChild(f)
		if f.IsLeaf() {
			if err := restoreLeaf(cv, doc[name]); err != nil {
				return err
			}
			continue
		}
		sub, err := asMap(doc[name])
		if err != nil {
			return newCodecError(ErrInvalidValue, f.Path(), -1, err)
		}
		if err := restoreChildren(cv, sub, childPath); err != nil {
			return err
		}
	}
	return nil
}

func restoreLeaf(v *Value, entry any) error {
	f := v.field
	s, ok := entry.(string)
	if !ok {
		return newCodecError(ErrInvalidValue, f.Path(), -1, fmt.Errorf("leaf holds %T, want hex string", entry))
	}
	raw, err := DecodeHex(s)
	if err != nil {
		return newCodecError(ErrInvalidValue, f.Path(), -1, err)
	}
	typed, err := f.res.body.Decode(raw)
	if err != nil {
		return newCodecError(ErrInvalidValue, f.Path(), -1, err)
	}
	v.raw = raw
	v.typed = typed
	return nil
}

// asMap accepts the map shapes produced by the snapshot codecs.
func asMap(entry any) (map[string]any, error) {
	switch m := entry.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("container holds %T, want map", entry)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

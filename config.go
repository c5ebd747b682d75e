package isomsg

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// fieldDoc is one field of a YAML schema document.
type fieldDoc struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Tag      *int         `yaml:"tag"`
	Bit      int          `yaml:"bit"`
	Fixed    int          `yaml:"fixed"`
	Min      int          `yaml:"min"`
	Max      int          `yaml:"max"`
	Required *bool        `yaml:"required"`
	TagCodec *strategyRef `yaml:"tag_codec"`
	Length   *strategyRef `yaml:"length"`
	Body     *strategyRef `yaml:"body"`
	Bitmap   *strategyRef `yaml:"bitmap"`
	Masker   *strategyRef `yaml:"masker"`
	Stringer *strategyRef `yaml:"stringer"`
	Repeat   []string     `yaml:"repeat"`
	Children []fieldDoc   `yaml:"children"`
}

// strategyRef names a catalog entry, either as a bare scalar or as a
// mapping with options.
type strategyRef struct {
	Name   string `yaml:"name"`
	Params `yaml:",inline"`
}

func (r *strategyRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Name = node.Value
		return nil
	}
	type plain strategyRef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = strategyRef(p)
	return nil
}

// LoadSchema builds a schema from a YAML document, resolving strategy names
// through cat. A nil catalog uses NewCatalog.
//
//	name: auth
//	kind: message
//	children:
//	  - name: mti
//	    kind: fixed
//	    fixed: 2
//	    body: {name: bcd}
//	  - name: fields
//	    kind: bitmap
//	    bitmap: {name: extended, block: 8, blocks: 2}
//	    children:
//	      - name: pan
//	        kind: prefixed
//	        bit: 2
//	        length: {name: bcd, size: 1}
//	        body: {name: bcd, pad: right, fill: F}
//	        masker: pan
//
// A leaf listing repeat names is followed by copies of itself under those
// names.
func LoadSchema(data []byte, cat *Catalog) (*Field, error) {
	if cat == nil {
		cat = NewCatalog()
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc fieldDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, newDefinitionError(ErrInvalidDocument, "", err.Error())
	}

	kind, err := ParseKind(doc.Kind)
	if err != nil {
		return nil, newDefinitionError(ErrInvalidDocument, "", err.Error())
	}
	if len(doc.Repeat) > 0 {
		return nil, newDefinitionError(ErrInvalidDocument, "", "repeat on the root")
	}
	b := NewBuilder(kind)
	if err := applyDoc(b, cat, &doc, ""); err != nil {
		return nil, err
	}
	return b.Build()
}

func applyDoc(b *Builder, cat *Catalog, doc *fieldDoc, path string) error {
	if doc.Name != "" {
		b.Name(doc.Name)
	}
	if doc.Tag != nil {
		b.TagNumber(*doc.Tag)
	}
	if doc.Bit != 0 {
		b.Bit(doc.Bit)
	}
	if doc.Fixed != 0 {
		b.FixedLength(doc.Fixed)
	}
	if doc.Min != 0 {
		b.MinLength(doc.Min)
	}
	if doc.Max != 0 {
		b.MaxLength(doc.Max)
	}
	if doc.Required != nil {
		if *doc.Required {
			b.Required()
		} else {
			b.Optional()
		}
	}
	if err := applyStrategies(b, cat, doc, path); err != nil {
		return err
	}

	for i := range doc.Children {
		child := &doc.Children[i]
		kind, err := ParseKind(child.Kind)
		if err != nil {
			return newDefinitionError(ErrInvalidDocument, joinChild(path, child.Name), err.Error())
		}
		b.Child(kind)
		if err := applyDoc(b, cat, child, joinChild(path, child.Name)); err != nil {
			return err
		}
		for _, name := range child.Repeat {
			b.CloneToSibling().Name(name)
		}
		b.Parent()
	}
	if len(doc.Repeat) > 0 && len(doc.Children) > 0 {
		return newDefinitionError(ErrInvalidDocument, path, "repeat on a field with children")
	}
	return nil
}

func applyStrategies(b *Builder, cat *Catalog, doc *fieldDoc, path string) error {
	wrap := func(err error) error {
		var de *DefinitionError
		if errors.As(err, &de) {
			de.Path = path
			return de
		}
		return newDefinitionError(ErrInvalidDocument, path, err.Error())
	}

	if r := doc.TagCodec; r != nil {
		c, err := cat.Tag(r.Name, r.Params)
		if err != nil {
			return wrap(err)
		}
		b.Tag(c, r.Size)
	}
	if r := doc.Length; r != nil {
		c, err := cat.Length(r.Name, r.Params)
		if err != nil {
			return wrap(err)
		}
		b.Length(c)
	}
	if r := doc.Body; r != nil {
		c, err := cat.Body(r.Name, r.Params)
		if err != nil {
			return wrap(err)
		}
		b.Body(c)
	}
	if r := doc.Bitmap; r != nil {
		c, err := cat.Bitmap(r.Name, r.Params)
		if err != nil {
			return wrap(err)
		}
		b.Bitmap(c)
	}
	if r := doc.Masker; r != nil {
		m, err := cat.Masker(r.Name, r.Params)
		if err != nil {
			return wrap(err)
		}
		b.Masker(m)
	}
	if r := doc.Stringer; r != nil {
		s, err := cat.Stringer(r.Name, r.Params)
		if err != nil {
			return wrap(err)
		}
		b.Stringer(s)
	}
	return nil
}

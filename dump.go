package isomsg

import (
	"fmt"
	"strings"
)

// DumpOption configures Holder.Dump.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	hex    bool
	indent string
}

// WithHex appends the body bytes of each leaf as hex, passed through the
// field's masker.
func WithHex() DumpOption {
	return func(c *dumpConfig) {
		c.hex = true
	}
}

// WithIndent replaces the two-space indent unit.
func WithIndent(unit string) DumpOption {
	return func(c *dumpConfig) {
		c.indent = unit
	}
}

// Dump renders the value tree as indented text, one field per line. Leaves
// go through their masker when one is set and their stringer otherwise, so
// the output is safe to log. Packed bytes are never affected.
func (h *Holder) Dump(opts ...DumpOption) string {
	cfg := dumpConfig{indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}
	var sb strings.Builder
	if h.root == nil {
		sb.WriteString(h.schema.label())
		sb.WriteString(" (empty)\n")
		return sb.String()
	}
	dumpValue(&sb, &cfg, h.root, 0)
	return sb.String()
}

func dumpValue(sb *strings.Builder, cfg *dumpConfig, v *Value, depth int) {
	f := v.field
	sb.WriteString(strings.Repeat(cfg.indent, depth))
	sb.WriteString(f.label())
	if f.kind == KindTagged {
		fmt.Fprintf(sb, " (tag %d)", f.tagNumber)
	}

	if f.IsLeaf() {
		sb.WriteString(": ")
		sb.WriteString(displayValue(f, v))
		if cfg.hex {
			sb.WriteString(" [")
			sb.WriteString(displayHex(f, v.raw))
			sb.WriteString("]")
		}
		sb.WriteByte('\n')
		return
	}

	if f.kind == KindBitmap {
		bits := make([]string, 0, len(v.children))
		for _, c := range v.children {
			bits = append(bits, fmt.Sprint(c.field.bit))
		}
		fmt.Fprintf(sb, " bits=%s", strings.Join(bits, ","))
	}
	sb.WriteByte('\n')
	for _, c := range v.children {
		dumpValue(sb, cfg, c, depth+1)
	}
}

func displayValue(f *Field, v *Value) string {
	if m := f.res.masker; m != nil {
		return m.MaskValue(v.typed)
	}
	return f.res.stringer.Convert(v.typed)
}

func displayHex(f *Field, raw []byte) string {
	hex := EncodeHex(raw)
	if m := f.res.masker; m != nil {
		return m.MaskHex(hex)
	}
	return hex
}

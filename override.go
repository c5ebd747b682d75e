package isomsg

// Override interfaces let a type bypass reflection in a Binder. When *T
// implements one of them, Store or Load calls the method instead of walking
// the isomsg tags, which suits generated code and fields that need custom
// conversion.

// HolderStorer bypasses reflection in Binder.Store.
type HolderStorer interface {
	// StoreHolder assigns the receiver's values into h with SetValue.
	StoreHolder(h *Holder) error
}

// HolderLoader bypasses reflection in Binder.Load.
type HolderLoader interface {
	// LoadHolder reads values from h into the receiver.
	LoadHolder(h *Holder) error
}

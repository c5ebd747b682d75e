package isomsg

import "sync"

// Catalog maps strategy names used in schema documents to factories. A
// catalog is owned by its caller and passed to LoadSchema; there is no
// package-level registry. Catalogs are safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	tags      map[string]TagFactory
	lengths   map[string]LengthFactory
	bodies    map[string]BodyFactory
	bitmaps   map[string]BitmapFactory
	maskers   map[string]MaskerFactory
	stringers map[string]StringerFactory
}

// NewCatalog returns a catalog holding the built-in strategies.
func NewCatalog() *Catalog {
	c := &Catalog{
		tags:      make(map[string]TagFactory),
		lengths:   make(map[string]LengthFactory),
		bodies:    make(map[string]BodyFactory),
		bitmaps:   make(map[string]BitmapFactory),
		maskers:   make(map[string]MaskerFactory),
		stringers: make(map[string]StringerFactory),
	}
	registerBuiltins(c)
	return c
}

// RegisterTag adds or replaces a tag codec factory.
func (c *Catalog) RegisterTag(name string, f TagFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[name] = f
}

// RegisterLength adds or replaces a length codec factory.
func (c *Catalog) RegisterLength(name string, f LengthFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lengths[name] = f
}

// RegisterBody adds or replaces a body codec factory.
func (c *Catalog) RegisterBody(name string, f BodyFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies[name] = f
}

// RegisterBitmap adds or replaces a bitmap codec factory.
func (c *Catalog) RegisterBitmap(name string, f BitmapFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bitmaps[name] = f
}

// RegisterMasker adds or replaces a masker factory.
func (c *Catalog) RegisterMasker(name string, f MaskerFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maskers[name] = f
}

// RegisterStringer adds or replaces a stringer factory.
func (c *Catalog) RegisterStringer(name string, f StringerFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stringers[name] = f
}

// lookup reads one factory under the read lock.
func lookup[F any](c *Catalog, m map[string]F, name string) (F, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := m[name]
	return f, ok
}

// Tag builds the named tag codec.
func (c *Catalog) Tag(name string, p Params) (TagCodec, error) {
	f, ok := lookup(c, c.tags, name)
	if !ok {
		return nil, unknownStrategy("tag", name)
	}
	return f(p)
}

// Length builds the named length codec.
func (c *Catalog) Length(name string, p Params) (LengthCodec, error) {
	f, ok := lookup(c, c.lengths, name)
	if !ok {
		return nil, unknownStrategy("length", name)
	}
	return f(p)
}

// Body builds the named body codec.
func (c *Catalog) Body(name string, p Params) (BodyCodec, error) {
	f, ok := lookup(c, c.bodies, name)
	if !ok {
		return nil, unknownStrategy("body", name)
	}
	return f(p)
}

// Bitmap builds the named bitmap codec.
func (c *Catalog) Bitmap(name string, p Params) (BitmapCodec, error) {
	f, ok := lookup(c, c.bitmaps, name)
	if !ok {
		return nil, unknownStrategy("bitmap", name)
	}
	return f(p)
}

// Masker builds the named masker.
func (c *Catalog) Masker(name string, p Params) (Masker, error) {
	f, ok := lookup(c, c.maskers, name)
	if !ok {
		return nil, unknownStrategy("masker", name)
	}
	return f(p)
}

// Stringer builds the named stringer.
func (c *Catalog) Stringer(name string, p Params) (Stringer, error) {
	f, ok := lookup(c, c.stringers, name)
	if !ok {
		return nil, unknownStrategy("stringer", name)
	}
	return f(p)
}

func unknownStrategy(role, name string) error {
	return newDefinitionError(ErrUnknownStrategy, "", role+" "+name)
}

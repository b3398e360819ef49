package transform

// Catalog maps transform names to registered implementations. The two shapes
// live in separate tables; a name resolves through exactly one of them,
// selected by the kind the schema documents declare for it.
//
// A Catalog is populated once during setup and read-only afterwards. It has
// no internal locking.
type Catalog struct {
	integer map[string]IntegerFunc
	float   map[string]FloatFunc
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		integer: make(map[string]IntegerFunc),
		float:   make(map[string]FloatFunc),
	}
}

// RegisterInteger registers an integer-producing transform under name,
// replacing any previous registration.
func (c *Catalog) RegisterInteger(name string, fn IntegerFunc) {
	c.integer[name] = fn
}

// RegisterFloat registers a float-producing transform under name, replacing
// any previous registration.
func (c *Catalog) RegisterFloat(name string, fn FloatFunc) {
	c.float[name] = fn
}

// LookupInteger resolves name to an integer-producing transform.
func (c *Catalog) LookupInteger(name string) (IntegerFunc, bool) {
	fn, ok := c.integer[name]
	return fn, ok
}

// LookupFloat resolves name to a float-producing transform.
func (c *Catalog) LookupFloat(name string) (FloatFunc, bool) {
	fn, ok := c.float[name]
	return fn, ok
}

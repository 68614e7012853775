package dataset

// Registry is an immutable set of tables keyed by name. Iteration follows
// registration order; replacing a table keeps its original position.
type Registry struct {
	order  []string
	tables map[string]*Table
}

// NewRegistry builds a registry from tables. A later table with the same
// name replaces an earlier one.
func NewRegistry(tables ...*Table) *Registry {
	r := &Registry{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		r = r.With(t)
	}
	return r
}

// With returns a new registry in which t is stored under t.Name().
// The receiver is left unchanged.
func (r *Registry) With(t *Table) *Registry {
	next := &Registry{
		order:  r.order,
		tables: make(map[string]*Table, len(r.tables)+1),
	}
	for name, table := range r.tables {
		next.tables[name] = table
	}
	if _, exists := r.tables[t.Name()]; !exists {
		next.order = append(append([]string(nil), r.order...), t.Name())
	}
	next.tables[t.Name()] = t
	return next
}

// Get returns the named table
func (r *Registry) Get(name string) (*Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Has reports whether a table is registered under name
func (r *Registry) Has(name string) bool {
	_, ok := r.tables[name]
	return ok
}

// Names returns table names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tables
func (r *Registry) Len() int { return len(r.order) }

// Tables returns the tables in registration order
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tables[name])
	}
	return out
}

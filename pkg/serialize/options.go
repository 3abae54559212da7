package serialize

// Option applies a configuration option to a Marshal call.
type Option func(*config)

type config struct {
	fields   []string
	include  []string
	exclude  map[string]bool
	computed map[string]func(any) any
	nested   map[string][]Option
	fixup    func(map[string]any) map[string]any
}

func newConfig(opts []Option) *config {
	cfg := &config{exclude: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Fields replaces the default field set with the named fields.
func Fields(names ...string) Option {
	return func(c *config) {
		c.fields = append([]string{}, names...)
	}
}

// Include adds fields on top of the default set.
func Include(names ...string) Option {
	return func(c *config) {
		c.include = append(c.include, names...)
	}
}

// Exclude removes fields from the output.
func Exclude(names ...string) Option {
	return func(c *config) {
		for _, n := range names {
			c.exclude[n] = true
		}
	}
}

// Computed adds a derived attribute: fn receives the value being
// marshalled and its result appears under key.
func Computed(key string, fn func(src any) any) Option {
	return func(c *config) {
		if fn == nil {
			return
		}
		if c.computed == nil {
			c.computed = make(map[string]func(any) any)
		}
		c.computed[key] = fn
	}
}

// Nested marshals the named field recursively with its own options,
// for shaping related sub-objects.
func Nested(key string, opts ...Option) Option {
	return func(c *config) {
		if c.nested == nil {
			c.nested = make(map[string][]Option)
		}
		c.nested[key] = opts
	}
}

// Fixup post-processes the marshalled map. Use sparingly; prefer the
// declarative options when they can express the same result.
func Fixup(fn func(data map[string]any) map[string]any) Option {
	return func(c *config) {
		c.fixup = fn
	}
}

// Flatten returns a Fixup that lifts the entries of the named sub-map
// into the parent map, overwriting collisions, and drops the key.
func Flatten(key string) Option {
	return Fixup(func(data map[string]any) map[string]any {
		sub, ok := data[key].(map[string]any)
		if !ok {
			return data
		}
		for k, v := range sub {
			data[k] = v
		}
		delete(data, key)
		return data
	})
}

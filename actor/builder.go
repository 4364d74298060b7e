package actor

// Builder accumulates event sources for a handler of type H before it
// starts running, composing any number of typed input streams into a
// single actor. Once Spawn is called, every
// channel already created through the builder's factory — plus any
// attached later via a retained ChannelFactory clone — feeds the same
// running multiplexer.
type Builder[H any] struct {
	factory *ChannelFactory[H]
	cfg     Config
}

// NewBuilder creates a builder for a handler of type H. A zero Config
// picks up the package defaults, with ChunkSize defaulting to
// DefaultMultiplexerChunkSize.
func NewBuilder[H any](cfg Config) *Builder[H] {
	cfg = cfg.withDefaults(DefaultMultiplexerChunkSize)
	return &Builder[H]{
		factory: newChannelFactory[H](newControl(), cfg),
		cfg:     cfg,
	}
}

// Factory returns the builder's channel factory, for creating channels or
// attaching external receivers before (or, by retaining a reference,
// after) Spawn.
func (b *Builder[H]) Factory() *ChannelFactory[H] {
	return b.factory
}

// Spawn finalizes the builder into a running multiplexer dispatching to
// handler h, and returns its Driver. As with Actor[T], the framework does
// not run the driver itself; the caller is expected to `go driver.Run()`.
func (b *Builder[H]) Spawn(handler H) *Driver {
	return newMultiplexerDriver(b.factory, handler, b.cfg.ChunkSize)
}

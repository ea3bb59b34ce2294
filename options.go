package hopwire

// Option configures a Client at construction time. Mirrors the teacher
// corpus's dual construction style: functional options here for one-shot
// setup, the fluent Builder (builder.go) for incrementally assembling a
// chain.
type Option func(*Client)

// WithChain sets the client's default proxy chain.
func WithChain(chain Chain) Option {
	return func(c *Client) { c.chain = chain }
}

// WithDialer overrides the transport dialer used to reach the first hop.
func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithResolver overrides the DNS collaborator used for local resolution.
func WithResolver(r Resolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithTrace installs a trace hook fired by Client.Connect when a connect
// starts, fails, or succeeds.
func WithTrace(t Trace) Option {
	return func(c *Client) { c.trace = t }
}

// New returns a Client configured by opts, falling back to NewClient's
// defaults for anything left unset.
func New(opts ...Option) *Client {
	c := NewClient()

	for _, opt := range opts {
		opt(c)
	}

	return c
}

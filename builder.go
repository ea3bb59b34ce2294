package hopwire

// Builder assembles a Chain incrementally, mirroring the source's
// setproxy(..., append=True) pattern of growing a chain one hop at a time
// rather than constructing it as a single literal.
type Builder struct {
	client *Client
	steps  Chain
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Add appends one hop to the chain under construction.
func (b *Builder) Add(step ProxyStep) *Builder {
	b.steps = append(b.steps, step)
	return b
}

// Socks5 appends a SOCKS5 hop.
func (b *Builder) Socks5(host string, port uint16) *Builder {
	return b.Add(ProxyStep{Kind: Socks5, Host: host, Port: port})
}

// Socks4 appends a SOCKS4 hop.
func (b *Builder) Socks4(host string, port uint16) *Builder {
	return b.Add(ProxyStep{Kind: Socks4, Host: host, Port: port})
}

// Http appends an HTTP CONNECT hop.
func (b *Builder) Http(host string, port uint16) *Builder {
	return b.Add(ProxyStep{Kind: Http, Host: host, Port: port})
}

// RemoteDNS marks the most recently added hop to forward hostnames for
// remote resolution instead of resolving them locally.
func (b *Builder) RemoteDNS() *Builder {
	if n := len(b.steps); n > 0 {
		b.steps[n-1].RemoteDNS = true
	}

	return b
}

// Auth attaches credentials to the most recently added hop.
func (b *Builder) Auth(user, password []byte) *Builder {
	if n := len(b.steps); n > 0 {
		b.steps[n-1].User = user
		b.steps[n-1].Password = password
	}

	return b
}

// Build finalizes the chain and, if the Builder was obtained from a
// Client, installs it as that client's default chain.
func (b *Builder) Build() Chain {
	if b.client != nil {
		b.client.chain = b.steps
	}

	return b.steps
}

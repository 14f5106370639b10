package conn

import (
	"time"

	"github.com/10gen/mongo-go-async/msg"
)

func newConfig(opts ...Option) *config {
	cfg := &config{
		dialer: DialEndpoint,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option configures a connection.
type Option func(*config)

type config struct {
	codec    msg.Codec
	dialer   EndpointDialer
	lifetime time.Duration
}

func (c *config) lifetimeOf() time.Time {
	if c.lifetime == 0 {
		return time.Time{}
	}
	return time.Now().Add(c.lifetime)
}

// Codec sets the codec to use to encode and decode messages. There is no
// default; the wire framing belongs to the embedder.
func Codec(codec msg.Codec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

// EndpointDialerOpt defines the dialer for endpoints. Use this configuration
// option to enable things like TLS.
func EndpointDialerOpt(dialer EndpointDialer) Option {
	return func(c *config) {
		c.dialer = dialer
	}
}

// Lifetime sets how long a connection may be used before it is considered
// expired and is refused reuse.
func Lifetime(d time.Duration) Option {
	return func(c *config) {
		c.lifetime = d
	}
}

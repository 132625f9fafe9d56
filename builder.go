package regkit

import (
	"errors"

	"github.com/markoua/regkit/delivery"
	"github.com/markoua/regkit/kv"
	"github.com/markoua/regkit/password"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Engine. Configure it once, call Build once.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	store     kv.Store
	hasher    password.Hasher
	mailer    delivery.Mailer
	sms       delivery.SMSSender
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with defaults: 300s code TTL, 60s
// re-issuance interval, metrics on, audit and delivery off, legacy
// SHA-256 hashing.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis uses a go-redis client as the backing store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore uses an arbitrary kv.Store implementation. It takes
// precedence over WithRedis.
func (b *Builder) WithStore(store kv.Store) *Builder {
	b.store = store
	return b
}

// WithHasher overrides the password hasher. Switching away from the
// legacy SHA-256 hasher changes the stored hash format; existing
// records will stop verifying.
func (b *Builder) WithHasher(h password.Hasher) *Builder {
	b.hasher = h
	return b
}

// WithMailer wires email code delivery.
func (b *Builder) WithMailer(m delivery.Mailer) *Builder {
	b.mailer = m
	return b
}

// WithSMSSender wires SMS code delivery.
func (b *Builder) WithSMSSender(s delivery.SMSSender) *Builder {
	b.sms = s
	return b
}

// WithAuditSink wires the audit event destination.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderReused
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("store required: provide WithRedis or WithStore")
		}
		store = kv.NewRedis(b.redis)
	}

	hasher := b.hasher
	if hasher == nil {
		hasher = password.NewSHA256()
	}

	b.built = true

	return &Engine{
		config:  cfg,
		store:   store,
		hasher:  hasher,
		mailer:  b.mailer,
		sms:     b.sms,
		metrics: NewMetrics(cfg.Metrics),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
	}, nil
}

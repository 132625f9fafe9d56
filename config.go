package regkit

import (
	"errors"
	"time"
)

// Config groups the engine's tunables. Zero values are filled by
// defaultConfig via New; a Config passed to WithConfig is validated on
// Build and treated as immutable afterwards.
type Config struct {
	Codes    CodesConfig
	Delivery DeliveryConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
CODES CONFIG
====================================
*/

// CodesConfig controls registration-code issuance.
//
// TTL is the total code lifetime; ReissueInterval is the minimum time a
// caller must wait before a replacement code can be issued for the same
// (codeType, identifier) key. Issue rejects with IssueTooFast while the
// outstanding code's remaining TTL is at least TTL-ReissueInterval. The
// two are independent named settings so the rate-limit threshold stays
// derived, never a magic number.
type CodesConfig struct {
	TTL             time.Duration
	ReissueInterval time.Duration
}

/*
====================================
DELIVERY CONFIG
====================================
*/

// DeliveryConfig controls best-effort code delivery. Delivery failures
// are audited and counted but never fail issuance; the code is still
// returned to the caller.
type DeliveryConfig struct {
	Enabled      bool
	EmailSubject string
	// EmailBody and SMSText are fmt templates receiving the code as
	// their single %s argument.
	EmailBody string
	SMSText   string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events under backpressure instead of blocking
	// the calling operation. Dropped events are counted.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process atomic counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Codes: CodesConfig{
			TTL:             300 * time.Second,
			ReissueInterval: 60 * time.Second,
		},
		Delivery: DeliveryConfig{
			Enabled:      false,
			EmailSubject: "Your verification code",
			EmailBody:    "Your verification code is %s.",
			SMSText:      "Verification code: %s",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// No reference types inside; a value copy is a deep copy.
	return cfg
}

// Validate checks the configuration invariants Build relies on.
func (c *Config) Validate() error {
	if c.Codes.TTL <= 0 {
		return errors.New("Codes.TTL must be positive")
	}
	if c.Codes.ReissueInterval <= 0 {
		return errors.New("Codes.ReissueInterval must be positive")
	}
	if c.Codes.ReissueInterval >= c.Codes.TTL {
		return errors.New("Codes.ReissueInterval must be shorter than Codes.TTL")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	if c.Delivery.Enabled {
		if c.Delivery.EmailBody == "" {
			return errors.New("Delivery.EmailBody required when delivery is enabled")
		}
		if c.Delivery.SMSText == "" {
			return errors.New("Delivery.SMSText required when delivery is enabled")
		}
	}
	return nil
}

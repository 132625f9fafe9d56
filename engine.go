package regkit

import (
	"context"

	"github.com/markoua/regkit/delivery"
	"github.com/markoua/regkit/kv"
	"github.com/markoua/regkit/password"
)

// Engine is the root handle: it owns the store, hasher, optional
// delivery senders, metrics, and the audit dispatcher. An Engine is
// stateless beyond those collaborators and safe for concurrent use.
type Engine struct {
	config  Config
	store   kv.Store
	hasher  password.Hasher
	mailer  delivery.Mailer
	sms     delivery.SMSSender
	metrics *Metrics
	audit   *auditDispatcher
}

// Users returns a UserStore bound to the normalized email.
func (e *Engine) Users(email string) *UserStore {
	return &UserStore{engine: e, email: NormalizeEmail(email)}
}

// Codes returns a CodeIssuer bound to the normalized email.
func (e *Engine) Codes(email string) *CodeIssuer {
	return &CodeIssuer{engine: e, email: NormalizeEmail(email)}
}

// MetricsSnapshot exposes the current counters for exporters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// MetricValue reads a single counter.
func (e *Engine) MetricValue(id MetricID) uint64 {
	if e == nil {
		return 0
	}
	return e.metrics.Value(id)
}

// AuditDropped reports audit events dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close drains and stops the audit dispatcher. The store client's
// lifecycle stays with whoever constructed it.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.hasher == nil {
		return ErrEngineNotReady
	}
	return nil
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType, email string, success bool, opErr error, metadata map[string]string) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		EventType: eventType,
		Email:     email,
		Success:   success,
		Metadata:  metadata,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	e.audit.Emit(ctx, event)
}

package regkit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/markoua/regkit/internal"
)

// Key naming is shared with other deployments against the same store and
// must stay bit-exact: register:code:{codeType}:{identifierOrEmail}.
const codeKeyPrefix = "register:code:"

func codeKey(codeType CodeType, identifier string) string {
	return codeKeyPrefix + string(codeType) + ":" + identifier
}

// CodeIssuer issues and activates one-time registration codes for the
// identity it is bound to. Email-type codes are keyed by the bound
// email; phone-type codes are keyed by the caller-supplied phone number.
//
// Per (codeType, identifier) key the code moves Absent → Active →
// (Consumed | Expired), where Consumed and Expired both collapse back to
// Absent once the store reclaims the key.
type CodeIssuer struct {
	engine *Engine
	email  string
}

// identifier resolves the code key segment and enforces the phone
// precondition.
func (c *CodeIssuer) identifier(codeType CodeType, phone string) (string, error) {
	switch codeType {
	case CodeTypeEmail:
		return c.email, nil
	case CodeTypePhone:
		if phone == "" {
			return "", ErrPhoneRequired
		}
		return phone, nil
	default:
		return "", ErrInvalidCodeType
	}
}

// Issue generates and persists a fresh code unless the outstanding one
// is still inside the minimum re-issuance window.
//
// With the default 300s TTL and 60s interval: a code younger than 60s
// (remaining TTL ≥ 240s) blocks issuance with IssueTooFast and the
// blocking code's remaining TTL. Otherwise the key is overwritten with a
// new random code and its TTL reset, replacing any older code still
// alive — at most one code is outstanding per key.
func (c *CodeIssuer) Issue(ctx context.Context, codeType CodeType, phone string) (IssueResult, error) {
	if err := c.engine.ready(); err != nil {
		return IssueResult{Status: IssueUnknown}, err
	}

	identifier, err := c.identifier(codeType, phone)
	if err != nil {
		return IssueResult{Status: IssueUnknown}, err
	}
	key := codeKey(codeType, identifier)

	remaining, active, err := c.engine.store.TTL(ctx, key)
	if err != nil {
		c.engine.metricInc(MetricCodeIssueFailure)
		return IssueResult{Status: IssueUnknown}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	cfg := c.engine.config.Codes
	if active && remaining >= cfg.TTL-cfg.ReissueInterval {
		c.engine.metricInc(MetricCodeReissueBlocked)
		c.engine.emitAudit(ctx, auditEventCodeIssue, c.email, false, nil, map[string]string{
			"code_type": string(codeType),
			"status":    IssueTooFast.String(),
		})
		return IssueResult{Status: IssueTooFast, TTL: remaining}, nil
	}

	code, err := internal.NewNumericCode()
	if err != nil {
		return IssueResult{Status: IssueUnknown}, err
	}

	if err := c.engine.store.Set(ctx, key, code, cfg.TTL); err != nil {
		c.engine.metricInc(MetricCodeIssueFailure)
		c.engine.emitAudit(ctx, auditEventCodeIssue, c.email, false, err, map[string]string{
			"code_type": string(codeType),
			"status":    IssueUnknown.String(),
		})
		return IssueResult{Status: IssueUnknown}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	c.deliver(ctx, codeType, identifier, code)

	c.engine.metricInc(MetricCodeIssued)
	c.engine.emitAudit(ctx, auditEventCodeIssue, c.email, true, nil, map[string]string{
		"code_type": string(codeType),
	})
	return IssueResult{Status: IssueSuccess, Code: code, TTL: cfg.TTL}, nil
}

// Activate validates and consumes the outstanding code. On a match the
// code is single-use: the key is deleted, and a phone-type activation
// also persists the phone on the bound user record. On mismatch or
// absence it returns false with no side effects.
//
// The phone write happens before the code delete. The two calls are not
// one transaction; a crash in between leaves the code alive and the
// phone persisted, which is recoverable (the code can be consumed
// again), whereas the reverse order could burn the code while losing the
// phone.
func (c *CodeIssuer) Activate(ctx context.Context, code string, codeType CodeType, phone string) (bool, error) {
	if err := c.engine.ready(); err != nil {
		return false, err
	}

	identifier, err := c.identifier(codeType, phone)
	if err != nil {
		return false, err
	}
	key := codeKey(codeType, identifier)

	stored, ok, err := c.engine.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok || !codesMatch(stored, code) {
		c.engine.metricInc(MetricActivateFailure)
		c.engine.emitAudit(ctx, auditEventCodeActivate, c.email, false, nil, map[string]string{
			"code_type": string(codeType),
		})
		return false, nil
	}

	if codeType == CodeTypePhone {
		if _, err := c.engine.Users(c.email).Update(ctx, UserUpdate{Phone: &phone}); err != nil {
			return false, err
		}
	}

	if _, err := c.engine.store.Del(ctx, key); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	c.engine.metricInc(MetricActivateSuccess)
	c.engine.emitAudit(ctx, auditEventCodeActivate, c.email, true, nil, map[string]string{
		"code_type": string(codeType),
	})
	return true, nil
}

// deliver sends the code over the channel's sender when delivery is
// enabled. Best-effort: failures are counted and audited, never
// propagated — the code was persisted and is returned to the caller.
func (c *CodeIssuer) deliver(ctx context.Context, codeType CodeType, identifier, code string) {
	cfg := c.engine.config.Delivery
	if !cfg.Enabled {
		return
	}

	var err error
	switch codeType {
	case CodeTypeEmail:
		if c.engine.mailer == nil {
			return
		}
		err = c.engine.mailer.SendEmail(identifier, cfg.EmailSubject, fmt.Sprintf(cfg.EmailBody, code))
	case CodeTypePhone:
		if c.engine.sms == nil {
			return
		}
		err = c.engine.sms.SendSMS(ctx, identifier, fmt.Sprintf(cfg.SMSText, code))
	}

	if err != nil {
		c.engine.metricInc(MetricDeliveryFailure)
		c.engine.emitAudit(ctx, auditEventCodeDeliver, c.email, false, err, map[string]string{
			"code_type": string(codeType),
		})
	}
}

// codesMatch compares the stored code against caller input tolerantly:
// exact string match, or equal numeric values when both parse, so "42"
// matches "042" and callers may pass numbers rendered any reasonable
// way. Tolerance is an input-handling convenience, not a security
// boundary — success still requires matching the one outstanding code.
func codesMatch(stored, provided string) bool {
	stored = strings.TrimSpace(stored)
	provided = strings.TrimSpace(provided)
	if stored == "" || provided == "" {
		return false
	}
	if stored == provided {
		return true
	}

	a, errA := strconv.ParseUint(stored, 10, 64)
	b, errB := strconv.ParseUint(provided, 10, 64)
	return errA == nil && errB == nil && a == b
}

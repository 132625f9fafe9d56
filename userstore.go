package regkit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/markoua/regkit/kv"
)

// Key naming is shared with other deployments against the same store and
// must stay bit-exact.
const userKeyPrefix = "user:"

// Hash field names mirror the deployed record layout.
const (
	fieldEmail        = "email"
	fieldName         = "name"
	fieldPasswordHash = "passwordHash"
	fieldPhone        = "phone"
	fieldCreatedAt    = "createdAt"
	fieldLastLoginAt  = "lastLoginAt"
	fieldIsBlocked    = "isBlocked"
)

const defaultUserName = "Anonymous"

// NormalizeEmail returns the canonical identity key for an email:
// trimmed and lowercased. It is idempotent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userKey(email string) string {
	return userKeyPrefix + email
}

// UserStore is a handle over the record of one normalized email. The
// handle itself is stateless; every call goes to the store.
type UserStore struct {
	engine *Engine
	email  string
}

// Email returns the normalized identity this handle is bound to.
func (u *UserStore) Email() string {
	return u.email
}

// Get fetches the record. An absent record is (nil, nil), not an error.
func (u *UserStore) Get(ctx context.Context) (*UserRecord, error) {
	if err := u.engine.ready(); err != nil {
		return nil, err
	}

	fields, err := u.engine.store.HGetAll(ctx, userKey(u.email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return decodeUserRecord(fields), nil
}

// Exists reports record presence, the sole existence predicate.
func (u *UserStore) Exists(ctx context.Context) (bool, error) {
	record, err := u.Get(ctx)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

// Update merge-writes the set fields. It reports true iff the store
// acknowledged the write. The store creates the hash implicitly for an
// absent record; callers needing create semantics must check existence
// first, the way Register does.
func (u *UserStore) Update(ctx context.Context, update UserUpdate) (bool, error) {
	if err := u.engine.ready(); err != nil {
		return false, err
	}

	fields := update.fields()
	if len(fields) == 0 {
		return true, nil
	}

	if err := u.engine.store.HSet(ctx, userKey(u.email), fields); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return true, nil
}

// Delete removes the record. It reports true iff a record was actually
// removed, so a second call returns false.
func (u *UserStore) Delete(ctx context.Context) (bool, error) {
	if err := u.engine.ready(); err != nil {
		return false, err
	}

	removed, err := u.engine.store.Del(ctx, userKey(u.email))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if removed > 0 {
		u.engine.metricInc(MetricUserDeleted)
		u.engine.emitAudit(ctx, auditEventUserDelete, u.email, true, nil, nil)
		return true, nil
	}
	return false, nil
}

// Login verifies the trimmed password against the stored hash. On
// success it updates lastLoginAt before returning true; on any failure
// path there are no side effects. A blocked record never logs in.
func (u *UserStore) Login(ctx context.Context, plaintext string) (bool, error) {
	record, err := u.Get(ctx)
	if err != nil {
		return false, err
	}
	if record == nil || record.IsBlocked {
		u.engine.metricInc(MetricLoginFailure)
		u.engine.emitAudit(ctx, auditEventLogin, u.email, false, nil, nil)
		return false, nil
	}

	match, err := u.engine.hasher.Verify(strings.TrimSpace(plaintext), record.PasswordHash)
	if err != nil {
		return false, err
	}
	if !match {
		u.engine.metricInc(MetricLoginFailure)
		u.engine.emitAudit(ctx, auditEventLogin, u.email, false, nil, nil)
		return false, nil
	}

	now := time.Now().UnixMilli()
	if ok, err := u.Update(ctx, UserUpdate{LastLoginAt: &now}); err != nil || !ok {
		return false, err
	}

	u.engine.metricInc(MetricLoginSuccess)
	u.engine.emitAudit(ctx, auditEventLogin, u.email, true, nil, nil)
	return true, nil
}

// Register creates the record for a new identity and returns a bound
// UserStore. It fails with ErrAccountExists when a record is already
// present for the normalized email.
//
// On stores implementing kv.Creator the existence check and the write
// are one atomic call. On anything else they are two sequential store
// calls: two concurrent registrations can both observe "absent" and the
// second write silently overwrites the first. Accepted, not fixed here —
// a single-process lock would not close the race across server
// instances sharing the store.
func (e *Engine) Register(ctx context.Context, email, plaintext, name string) (*UserStore, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, ErrEmailRequired
	}
	if name == "" {
		name = defaultUserName
	}

	hash, err := e.hasher.Hash(strings.TrimSpace(plaintext))
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		fieldEmail:        normalized,
		fieldName:         name,
		fieldPasswordHash: hash,
		fieldCreatedAt:    strconv.FormatInt(time.Now().UnixMilli(), 10),
		fieldLastLoginAt:  "0",
		fieldIsBlocked:    "0",
	}

	key := userKey(normalized)

	if creator, ok := e.store.(kv.Creator); ok {
		created, err := creator.HSetIfAbsent(ctx, key, fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if !created {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegister, normalized, false, ErrAccountExists, nil)
			return nil, ErrAccountExists
		}
	} else {
		existing, err := e.store.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if len(existing) > 0 {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegister, normalized, false, ErrAccountExists, nil)
			return nil, ErrAccountExists
		}
		if err := e.store.HSet(ctx, key, fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegister, normalized, true, nil, nil)
	return e.Users(normalized), nil
}

func (up UserUpdate) fields() map[string]string {
	fields := make(map[string]string, 5)
	if up.Name != nil {
		fields[fieldName] = *up.Name
	}
	if up.Phone != nil {
		fields[fieldPhone] = *up.Phone
	}
	if up.PasswordHash != nil {
		fields[fieldPasswordHash] = *up.PasswordHash
	}
	if up.LastLoginAt != nil {
		fields[fieldLastLoginAt] = strconv.FormatInt(*up.LastLoginAt, 10)
	}
	if up.IsBlocked != nil {
		fields[fieldIsBlocked] = encodeBool(*up.IsBlocked)
	}
	return fields
}

func decodeUserRecord(fields map[string]string) *UserRecord {
	return &UserRecord{
		Email:        fields[fieldEmail],
		Name:         fields[fieldName],
		PasswordHash: fields[fieldPasswordHash],
		Phone:        fields[fieldPhone],
		CreatedAt:    decodeMillis(fields[fieldCreatedAt]),
		LastLoginAt:  decodeMillis(fields[fieldLastLoginAt]),
		IsBlocked:    fields[fieldIsBlocked] == "1",
	}
}

func decodeMillis(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func encodeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

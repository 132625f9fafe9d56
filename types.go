package regkit

import "time"

// CodeType selects the channel a registration code is bound to. It
// determines the identifier segment of the code's store key.
type CodeType string

const (
	// CodeTypeEmail keys the code by the issuer's normalized email.
	CodeTypeEmail CodeType = "email"
	// CodeTypePhone keys the code by the caller-supplied phone number.
	CodeTypePhone CodeType = "phone"
)

// UserRecord is the stored identity record, one per normalized email.
// Its presence in the store is the sole existence predicate: a record
// exists iff registration completed.
type UserRecord struct {
	Email        string
	Name         string
	PasswordHash string
	Phone        string
	CreatedAt    int64 // epoch milliseconds
	LastLoginAt  int64 // epoch milliseconds, 0 until first login
	IsBlocked    bool
}

// UserUpdate is a partial merge-write against a stored record. Only
// non-nil fields are written.
type UserUpdate struct {
	Name         *string
	Phone        *string
	PasswordHash *string
	LastLoginAt  *int64
	IsBlocked    *bool
}

// IssueStatus classifies the outcome of CodeIssuer.Issue.
type IssueStatus uint8

const (
	// IssueSuccess means a fresh code was generated and persisted.
	IssueSuccess IssueStatus = iota
	// IssueTooFast means an outstanding code is still inside its
	// minimum re-issuance window; no new code was generated.
	IssueTooFast
	// IssueUnknown means the store did not acknowledge the write. The
	// caller may retry.
	IssueUnknown
)

func (s IssueStatus) String() string {
	switch s {
	case IssueSuccess:
		return "success"
	case IssueTooFast:
		return "too_fast"
	case IssueUnknown:
		return "unknown_error"
	default:
		return "invalid"
	}
}

// IssueResult carries the outcome of an issuance attempt. Code is set
// only on IssueSuccess. TTL is the full code lifetime on success, or the
// remaining life of the blocking code on IssueTooFast.
type IssueResult struct {
	Status IssueStatus
	Code   string
	TTL    time.Duration
}

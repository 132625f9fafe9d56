// Package internaldefs holds the shared metric name/help definitions the
// exporters render. It exists so the prometheus and otel exporters stay
// in lockstep without exporting the table from the root package.
package internaldefs

import (
	regkit "github.com/markoua/regkit"
)

// CounterDef names one engine counter for exposition.
type CounterDef struct {
	ID   regkit.MetricID
	Name string
	Help string
}

// CounterDefs lists every engine counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: regkit.MetricRegisterSuccess, Name: "regkit_register_success_total", Help: "Completed registrations."},
	{ID: regkit.MetricRegisterDuplicate, Name: "regkit_register_duplicate_total", Help: "Registrations rejected because the record already existed."},
	{ID: regkit.MetricLoginSuccess, Name: "regkit_login_success_total", Help: "Successful logins."},
	{ID: regkit.MetricLoginFailure, Name: "regkit_login_failure_total", Help: "Logins rejected for a wrong password, absent record, or blocked record."},
	{ID: regkit.MetricUserDeleted, Name: "regkit_user_deleted_total", Help: "User records removed."},
	{ID: regkit.MetricCodeIssued, Name: "regkit_code_issued_total", Help: "Registration codes persisted."},
	{ID: regkit.MetricCodeReissueBlocked, Name: "regkit_code_reissue_blocked_total", Help: "Issuances rejected inside the minimum re-issuance window."},
	{ID: regkit.MetricCodeIssueFailure, Name: "regkit_code_issue_failure_total", Help: "Code writes the store did not acknowledge."},
	{ID: regkit.MetricActivateSuccess, Name: "regkit_activate_success_total", Help: "Codes consumed by activation."},
	{ID: regkit.MetricActivateFailure, Name: "regkit_activate_failure_total", Help: "Activations rejected for an absent or mismatched code."},
	{ID: regkit.MetricDeliveryFailure, Name: "regkit_delivery_failure_total", Help: "Best-effort code deliveries that returned an error."},
}

// AuditDroppedName is the exposition name of the dispatcher drop counter.
const AuditDroppedName = "regkit_audit_dropped_total"

// AuditDroppedHelp describes the dispatcher drop counter.
const AuditDroppedHelp = "Audit events dropped under dispatcher backpressure."

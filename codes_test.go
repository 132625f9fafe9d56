package regkit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	to      string
	subject string
	body    string
	err     error
	sent    int
}

func (m *captureMailer) SendEmail(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	m.sent++
	return m.err
}

type captureSMS struct {
	to      string
	message string
	err     error
	sent    int
}

func (s *captureSMS) SendSMS(_ context.Context, to, message string) error {
	s.to, s.message = to, message
	s.sent++
	return s.err
}

func TestIssueEmailCode(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()

	result, err := engine.Codes("A@Test.com").Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueSuccess, result.Status)
	assert.Equal(t, 300*time.Second, result.TTL)
	assert.Len(t, result.Code, 6)

	stored, err := mr.Get("register:code:email:a@test.com")
	require.NoError(t, err)
	assert.Equal(t, result.Code, stored)
}

func TestIssuePhoneCodeKeyedByPhone(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()

	result, err := engine.Codes("a@test.com").Issue(ctx, CodeTypePhone, "+15550100")
	require.NoError(t, err)
	assert.Equal(t, IssueSuccess, result.Status)
	assert.True(t, mr.Exists("register:code:phone:+15550100"))
}

func TestIssuePhoneRequiresPhone(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Codes("a@test.com").Issue(context.Background(), CodeTypePhone, "")
	assert.ErrorIs(t, err, ErrPhoneRequired)

	_, err = engine.Codes("a@test.com").Activate(context.Background(), "123456", CodeTypePhone, "")
	assert.ErrorIs(t, err, ErrPhoneRequired)
}

func TestIssueRejectsUnknownCodeType(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Codes("a@test.com").Issue(context.Background(), CodeType("carrier-pigeon"), "")
	assert.ErrorIs(t, err, ErrInvalidCodeType)
}

func TestIssueTooFastInsideWindow(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()
	codes := engine.Codes("a@test.com")

	_, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)

	// 30s into the 60s window: still blocked, TTL reflects the first
	// issuance's remaining life.
	mr.FastForward(30 * time.Second)

	result, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueTooFast, result.Status)
	assert.Empty(t, result.Code)
	assert.Greater(t, result.TTL, 240*time.Second)
	assert.LessOrEqual(t, result.TTL, 300*time.Second)
}

func TestIssueWindowBoundary(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()
	codes := engine.Codes("a@test.com")

	_, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)

	// Exactly 60s old: remaining TTL is 240s, still inside the window.
	mr.FastForward(60 * time.Second)
	result, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueTooFast, result.Status)

	// One more second and re-issuance is allowed; the TTL resets.
	mr.FastForward(time.Second)
	result, err = codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueSuccess, result.Status)
	assert.Equal(t, 300*time.Second, result.TTL)

	ttl := mr.TTL("register:code:email:a@test.com")
	assert.Equal(t, 300*time.Second, ttl)
}

func TestIssueAfterExpiry(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()
	codes := engine.Codes("a@test.com")

	_, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)

	mr.FastForward(301 * time.Second)
	assert.False(t, mr.Exists("register:code:email:a@test.com"))

	result, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueSuccess, result.Status)
	assert.Len(t, result.Code, 6)
}

func TestActivateConsumesCode(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()
	codes := engine.Codes("a@test.com")

	issued, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)

	ok, err := codes.Activate(ctx, issued.Code, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("register:code:email:a@test.com"))

	// Single use.
	ok, err = codes.Activate(ctx, issued.Code, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.False(t, ok)

	// And a fresh issuance is immediately allowed again.
	result, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueSuccess, result.Status)
}

func TestActivateWrongCodeHasNoSideEffects(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()
	codes := engine.Codes("a@test.com")

	issued, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == issued.Code {
		wrong = "000001"
	}

	ok, err := codes.Activate(ctx, wrong, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("register:code:email:a@test.com"), "mismatch must not consume the code")
}

func TestActivatePhonePersistsPhone(t *testing.T) {
	engine, mr := newTestEngine(t)
	ctx := context.Background()

	users, err := engine.Register(ctx, "a@test.com", "pw123", "Alice")
	require.NoError(t, err)

	codes := engine.Codes("a@test.com")
	issued, err := codes.Issue(ctx, CodeTypePhone, "+15550100")
	require.NoError(t, err)

	ok, err := codes.Activate(ctx, issued.Code, CodeTypePhone, "+15550100")
	require.NoError(t, err)
	assert.True(t, ok)

	record, err := users.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+15550100", record.Phone)
	assert.False(t, mr.Exists("register:code:phone:+15550100"))
}

func TestActivateAbsentCode(t *testing.T) {
	engine, _ := newTestEngine(t)

	ok, err := engine.Codes("a@test.com").Activate(context.Background(), "123456", CodeTypeEmail, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActivateLooseComparison(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	// A code written with a leading zero by another producer still
	// matches its numeric form.
	require.NoError(t, engine.store.Set(ctx, "register:code:email:a@test.com", "042123", 300*time.Second))

	ok, err := engine.Codes("a@test.com").Activate(ctx, "42123", CodeTypeEmail, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCodesMatch(t *testing.T) {
	cases := []struct {
		stored   string
		provided string
		want     bool
	}{
		{"123456", "123456", true},
		{"123456", " 123456 ", true},
		{"042123", "42123", true},
		{"42123", "042123", true},
		{"123456", "123457", false},
		{"123456", "", false},
		{"", "123456", false},
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"123456", "12345x", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, codesMatch(tc.stored, tc.provided),
			"stored=%q provided=%q", tc.stored, tc.provided)
	}
}

func TestIssueDeliversEmailCode(t *testing.T) {
	mailer := &captureMailer{}
	engine, _ := newTestEngine(t, func(b *Builder) {
		b.config.Delivery.Enabled = true
		b.WithMailer(mailer)
	})

	result, err := engine.Codes("a@test.com").Issue(context.Background(), CodeTypeEmail, "")
	require.NoError(t, err)

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "a@test.com", mailer.to)
	assert.Equal(t, "Your verification code", mailer.subject)
	assert.Equal(t, fmt.Sprintf("Your verification code is %s.", result.Code), mailer.body)
}

func TestIssueDeliversSMSCode(t *testing.T) {
	sms := &captureSMS{}
	engine, _ := newTestEngine(t, func(b *Builder) {
		b.config.Delivery.Enabled = true
		b.WithSMSSender(sms)
	})

	result, err := engine.Codes("a@test.com").Issue(context.Background(), CodeTypePhone, "+15550100")
	require.NoError(t, err)

	assert.Equal(t, 1, sms.sent)
	assert.Equal(t, "+15550100", sms.to)
	assert.Equal(t, fmt.Sprintf("Verification code: %s", result.Code), sms.message)
}

func TestDeliveryFailureDoesNotFailIssuance(t *testing.T) {
	mailer := &captureMailer{err: errors.New("relay down")}
	engine, _ := newTestEngine(t, func(b *Builder) {
		b.config.Delivery.Enabled = true
		b.WithMailer(mailer)
	})

	result, err := engine.Codes("a@test.com").Issue(context.Background(), CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueSuccess, result.Status)
	assert.NotEmpty(t, result.Code)
	assert.Equal(t, uint64(1), engine.MetricValue(MetricDeliveryFailure))
}

func TestCodeMetrics(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	codes := engine.Codes("a@test.com")

	issued, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	_, err = codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)

	ok, err := codes.Activate(ctx, issued.Code, CodeTypeEmail, "")
	require.NoError(t, err)
	require.True(t, ok)
	_, _ = codes.Activate(ctx, issued.Code, CodeTypeEmail, "")

	assert.Equal(t, uint64(1), engine.MetricValue(MetricCodeIssued))
	assert.Equal(t, uint64(1), engine.MetricValue(MetricCodeReissueBlocked))
	assert.Equal(t, uint64(1), engine.MetricValue(MetricActivateSuccess))
	assert.Equal(t, uint64(1), engine.MetricValue(MetricActivateFailure))
}

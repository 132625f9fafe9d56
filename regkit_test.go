package regkit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, configure ...func(*Builder)) (*Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	builder := New().WithRedis(rdb)
	for _, fn := range configure {
		fn(builder)
	}

	engine, err := builder.Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	return engine, mr
}

// End-to-end walkthrough of the registration and activation flow.
func TestRegistrationFlowScenario(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	users, err := engine.Register(ctx, "A@Test.com", "pw123", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "a@test.com", users.Email())

	record, err := users.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "a@test.com", record.Email)

	ok, err := users.Login(ctx, "pw123")
	require.NoError(t, err)
	assert.True(t, ok)

	codes := engine.Codes("A@Test.com")

	first, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueSuccess, first.Status)
	assert.Equal(t, 300*time.Second, first.TTL)
	assert.Len(t, first.Code, 6)

	second, err := codes.Issue(ctx, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.Equal(t, IssueTooFast, second.Status)
	assert.Greater(t, second.TTL, 240*time.Second)
	assert.LessOrEqual(t, second.TTL, 300*time.Second)
	assert.Empty(t, second.Code)

	activated, err := codes.Activate(ctx, first.Code, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.True(t, activated)

	again, err := codes.Activate(ctx, first.Code, CodeTypeEmail, "")
	require.NoError(t, err)
	assert.False(t, again)
}

func TestBuilderRequiresStore(t *testing.T) {
	_, err := New().Build()
	assert.Error(t, err)
}

func TestBuilderRejectsReuse(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	builder := New().WithRedis(rdb)

	engine, err := builder.Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	_, err = builder.Build()
	assert.ErrorIs(t, err, ErrBuilderReused)
}

func TestZeroValueEngineNotReady(t *testing.T) {
	var engine Engine
	ctx := context.Background()

	_, err := engine.Register(ctx, "a@test.com", "pw", "")
	assert.ErrorIs(t, err, ErrEngineNotReady)

	_, err = engine.Users("a@test.com").Get(ctx)
	assert.ErrorIs(t, err, ErrEngineNotReady)

	_, err = engine.Codes("a@test.com").Issue(ctx, CodeTypeEmail, "")
	assert.ErrorIs(t, err, ErrEngineNotReady)
}

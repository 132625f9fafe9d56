// Package regkit manages user identity records and one-time registration
// codes on top of a shared, TTL-capable key-value store.
//
// All state lives in the external store; the library itself is stateless.
// Two handles cover the whole surface: [UserStore] (per-email record CRUD
// and login verification) and [CodeIssuer] (rate-limited issuance and
// single-use activation of 6-digit verification codes for the email and
// phone channels). Both are obtained from an [Engine] built through
// [Builder]:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	engine, err := regkit.New().
//		WithRedis(rdb).
//		Build()
//
// The store is consumed through the narrow [kv.Store] contract, so any
// backend with per-key TTL semantics can stand in for Redis. Sequences of
// store calls are not transactional; the documented consistency tradeoffs
// live next to the code that makes them (registration check-then-act,
// activation update+delete ordering).
package regkit

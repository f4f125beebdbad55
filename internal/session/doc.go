// Package session provides server-side sessions referenced by a signed
// cookie.
//
// A Manager opens the session for each request and saves it back when it
// was modified. Sessions live in a Store: MemoryStore (bounded LRU, the
// default) or RedisStore.
//
// Example Usage:
//
//	mgr := session.NewManager(session.NewMemoryStore(10000), session.Options{
//		CookieName: "session",
//		Lifetime:   31 * 24 * time.Hour,
//		Secret:     cfg.SecretKey,
//	})
//	s, err := mgr.Open(r)
//	s.Set("user_id", 42)
//	_, err = mgr.Save(r.Context(), w, s)
package session

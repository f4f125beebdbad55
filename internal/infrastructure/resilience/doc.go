/*
Package resilience wraps external dependencies in circuit breakers.

Extensions that talk to Postgres or Redis route their health checks
through a breaker so a dead backend is reported quickly instead of
stalling every check on a connection timeout.

# Usage

	cb := resilience.NewBreaker("postgres", logger)
	err := resilience.Call(ctx, cb, pool.Ping)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		// backend is known to be down
	}

# States

	Closed --[3 failures]-> Open --[30s]-> Half-Open --[success]-> Closed
*/
package resilience

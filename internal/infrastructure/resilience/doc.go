/*
Package resilience provides the circuit breaker that guards outbound calls
to the product catalog.

After Threshold consecutive failures the breaker opens and Execute fails
fast with ErrCircuitOpen. Once Cooldown has passed a single probe is let
through: success closes the breaker, failure opens it again.

	Closed --[Threshold failures]-> Open --[Cooldown]-> Half-Open --[probe ok]-> Closed
	                                  ^                     |
	                                  +----[probe failed]---+

# Usage

	breaker := resilience.New("catalog", resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
	})

	err := breaker.Execute(ctx, func(ctx context.Context) error {
		return fetch(ctx)
	})
*/
package resilience

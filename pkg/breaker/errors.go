package breaker

import "errors"

// ErrOpen is returned when a call is rejected without being attempted,
// either because the circuit is open or because a half-open trial is
// already in flight.
var ErrOpen = errors.New("circuit breaker is open")

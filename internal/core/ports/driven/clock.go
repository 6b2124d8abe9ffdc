package driven

import "time"

// Clock is the injectable time source used for all expiry math.
// Production wiring passes time.Now; tests pin it.
type Clock func() time.Time

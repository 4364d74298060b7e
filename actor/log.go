package actor

import (
	"github.com/btcsuite/btclog/v2"
)

// log is the package-wide logger. It defaults to a disabled logger so the
// runtime is silent until a host process wires one in via UseLogger,
// matching the convention used throughout the btcsuite/lnd ecosystem this
// module is descended from.
var log btclog.Logger = btclog.Disabled

// UseLogger configures the logger used by the actor package. Lifecycle
// events (driver start/stop, shutdown, dropped respond tokens) are logged
// through it. Callers typically build logger from a btclog.Handler (for
// example btclog.NewSLogger(handler)) and pass a subsystem-prefixed copy
// here during process startup.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog silences all logging from the actor package. This is the
// default state.
func DisableLog() {
	log = btclog.Disabled
}

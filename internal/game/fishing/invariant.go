package fishing

import (
	"fmt"
	"log/slog"
)

// invariant reports whether ok holds. A broken invariant means the tuning
// table is wrong: debug builds (-tags fishingdebug) panic, release builds
// log and let the caller clamp.
func invariant(ok bool, msg string, args ...any) bool {
	if ok {
		return true
	}
	if assertInvariants {
		panic(fmt.Sprintf("fishing: invariant violated: %s %v", msg, args))
	}
	slog.Debug("fishing invariant violated", append([]any{"what", msg}, args...)...)
	return false
}

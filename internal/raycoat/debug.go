package raycoat

import (
	"fmt"
	"log/slog"
	"sync"
)

// DebugLog writes through the default slog logger at debug level when Debug
// is set. Callers configure the handler level.
func DebugLog(format string, args ...any) {
	if !Debug {
		return
	}
	slog.Debug(fmt.Sprintf(format, args...))
}

var once sync.Once

func DebugLogOnce(format string, args ...any) {
	if !Debug {
		return
	}
	once.Do(func() {
		slog.Debug(fmt.Sprintf(format, args...))
	})
}

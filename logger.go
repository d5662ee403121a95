package eventlistener

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger routes the library's diagnostics, such as the warning emitted
// when a component mutator finds no component, to the given logger.
// Passing nil restores the default no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

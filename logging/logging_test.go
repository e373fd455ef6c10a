package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("fitted", "rows", 4)
	logger.Debug("debug line")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("fitted").Len(), test.ShouldEqual, 1)
	fields := logs.FilterMessage("fitted").All()[0].ContextMap()
	test.That(t, fields["rows"], test.ShouldEqual, int64(4))
}

func TestReplaceGlobal(t *testing.T) {
	prev := Global()
	defer ReplaceGlobal(prev)

	logger, logs := NewObservedTestLogger(t)
	ReplaceGlobal(logger)
	Global().Info("through global")
	test.That(t, logs.FilterMessage("through global").Len(), test.ShouldEqual, 1)
}

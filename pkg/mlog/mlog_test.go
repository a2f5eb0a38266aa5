package mlog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LerianStudio/ledger-engine/pkg/mlog"
)

func TestFromContext_NoneWhenUnset(t *testing.T) {
	t.Parallel()

	logger := mlog.FromContext(context.Background())
	_, ok := logger.(mlog.NoneLogger)
	assert.True(t, ok)

	// Every call is a safe no-op, never a nil-pointer panic.
	logger.Info("x")
	logger.Errorf("y %d", 1)
	assert.NoError(t, logger.Sync())
}

func TestWithContext_RoundTrips(t *testing.T) {
	t.Parallel()

	spy := &spyLogger{}
	ctx := mlog.WithContext(context.Background(), spy)

	mlog.FromContext(ctx).Info("hello")
	assert.Equal(t, []string{"hello"}, spy.infos)
}

type spyLogger struct {
	mlog.NoneLogger
	infos []string
}

func (s *spyLogger) Info(args ...any) {
	for _, a := range args {
		if str, ok := a.(string); ok {
			s.infos = append(s.infos, str)
		}
	}
}

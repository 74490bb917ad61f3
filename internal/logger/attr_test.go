package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kvstore/internal/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil), "nil error yields an empty attr")

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
}

func TestAttrKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "component", logger.Component("store").Key)
	assert.Equal(t, "duration", logger.Duration(time.Second).Key)
	assert.Equal(t, "elapsed", logger.Elapsed(time.Now()).Key)

	attr := logger.Count("entries", 3)
	assert.Equal(t, "entries", attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())
}

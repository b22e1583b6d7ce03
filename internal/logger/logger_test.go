package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/klar/internal/logger"
)

func newBufferLogger(level logger.Level) (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(logger.WithOutput(&buf), logger.WithLevel(level), logger.WithColors(false)), &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("warning"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel(" ERROR "))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}

func TestLogger_FormatsMessageWithPrefixAndFields(t *testing.T) {
	log, buf := newBufferLogger(logger.DEBUG)

	log.WithPrefix("card_repo").WithField("card_id", 42).Info("updated card level=%d", 3)

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "card_repo")
	assert.Contains(t, out, "updated card level=3")
	assert.Contains(t, out, `"card_id": 42`)
	assert.Contains(t, out, "logger_test.go")
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	log, buf := newBufferLogger(logger.WARN)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_SetLevelAffectsDerivedLoggers(t *testing.T) {
	log, buf := newBufferLogger(logger.ERROR)
	child := log.WithPrefix("svc")

	child.Info("before")
	log.SetLevel(logger.INFO)
	child.Info("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestFromContext(t *testing.T) {
	log, _ := newBufferLogger(logger.INFO)

	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
	ctx := logger.NewContext(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
}

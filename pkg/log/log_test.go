package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thoreinstein.com/projroot/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		"error":   {in: "error", want: slog.LevelError},
		"warn":    {in: "WARN", want: slog.LevelWarn},
		"warning": {in: "warning", want: slog.LevelWarn},
		"info":    {in: "info", want: slog.LevelInfo},
		"debug":   {in: "debug", want: slog.LevelDebug},
		"unknown": {in: "loud", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	for _, f := range log.AllFormats {
		got, err := log.GetFormat(f)
		require.NoError(t, err)
		assert.Equal(t, log.Format(f), got)
	}

	_, err := log.GetFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h, err := log.CreateHandlerWithStrings(&buf, "info", "json")
	require.NoError(t, err)

	slog.New(h).Info("found root", "dir", "/proj")
	assert.Contains(t, buf.String(), `"msg":"found root"`)
	assert.Contains(t, buf.String(), `"dir":"/proj"`)

	buf.Reset()
	h, err = log.CreateHandlerWithStrings(&buf, "warn", "logfmt")
	require.NoError(t, err)
	logger := slog.New(h)
	logger.Info("hidden")
	logger.Warn("shown", "n", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "n=1")

	buf.Reset()
	h, err = log.CreateHandlerWithStrings(&buf, "debug", "text")
	require.NoError(t, err)
	slog.New(h).Debug("tested directory", "dir", "/a")
	assert.Contains(t, buf.String(), "tested directory")

	_, err = log.CreateHandlerWithStrings(&buf, "nope", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, log.ErrInvalidArgument))
	assert.True(t, errors.Is(err, log.ErrUnknownLogLevel))

	_, err = log.CreateHandlerWithStrings(&buf, "info", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, log.ErrUnknownLogFormat))
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, log.FormatLogfmt, log.DetectFormat(&buf))

	h, err := log.CreateHandlerWithStrings(&buf, "info", "")
	require.NoError(t, err)
	slog.New(h).Info("auto")
	assert.Contains(t, buf.String(), "msg=auto")
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Default(), log.WithContext(context.Background()))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := log.NewContext(context.Background(), logger)
	assert.Same(t, logger, log.WithContext(ctx))
}

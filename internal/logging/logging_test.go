package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("decoded", zap.Int("records", 2))
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "decoded")
	require.Contains(t, buf.String(), "records")
}

func TestNewNone(t *testing.T) {
	var buf bytes.Buffer
	for _, level := range []string{"", "none", " NONE "} {
		logger, err := New(level, &buf)
		require.NoError(t, err)
		logger.Error("dropped")
	}
	require.Empty(t, buf.String())
}

func TestNewInvalid(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	require.Error(t, err)
}

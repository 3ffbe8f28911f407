package common

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	for _, format := range []string{"console", "text", "json", ""} {
		require.NoError(t, SetupLogger(slog.LevelInfo, format), "format %q", format)
	}

	err := SetupLogger(slog.LevelInfo, "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
}

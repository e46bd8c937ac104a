package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupFiltersByLevel(t *testing.T) {
	var out bytes.Buffer

	logger, err := Setup(&out, "")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Debug().Msg("hidden")
	logger.Warn().Str("pool_id", "p1").Msg("discarding unreadable pools")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "discarding unreadable pools")
	assert.Contains(t, out.String(), "pool_id=p1")
}

func TestSetupParsesLevel(t *testing.T) {
	logger, err := Setup(&bytes.Buffer{}, " DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	_, err = Setup(&bytes.Buffer{}, "loud")
	assert.ErrorContains(t, err, `parse log level "loud"`)
}

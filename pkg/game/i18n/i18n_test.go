package i18n

import (
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefault(t *testing.T) {
	require.NoError(t, Init(""))
	assert.Equal(t, "Echo Grove", gotext.Get("TITLE"))
	assert.Equal(t, "Settings opened", gotext.Get("SETTINGS_OPENED"))
	assert.Contains(t, Languages(), "en")
}

func TestInitUnknownLanguage(t *testing.T) {
	assert.Error(t, Init("xx"))
}

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "savorytui.log")

	log, sync, err := New("info", path)
	require.NoError(t, err)
	log.Debugw("hidden", "k", 1)
	log.Infow("menu loaded", "items", 10)
	sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "menu loaded")
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New("chatty", "")
	assert.Error(t, err)
}

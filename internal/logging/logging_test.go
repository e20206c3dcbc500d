package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("user_id", 7).Info("meal recorded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "meal recorded", line["msg"])
	assert.Equal(t, float64(7), line["user_id"])
}

func TestNewBadLevel(t *testing.T) {
	_, err := New("chatty", "text", &bytes.Buffer{})
	assert.Error(t, err)
}

package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}

func TestWithComponentAndRequestID(t *testing.T) {
	log := NewDefault()

	child := log.WithComponent("scanner").WithRequestID("req-1")

	assert.NotNil(t, child)
	assert.Equal(t, zerolog.InfoLevel, child.GetLevel())
}

func TestSetGlobal(t *testing.T) {
	prev := Global()
	defer SetGlobal(prev)

	log := NewDevelopment()
	SetGlobal(log)

	assert.Same(t, log, Global())
}

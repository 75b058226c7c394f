package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound4Truncates(t *testing.T) {
	assert.Equal(t, 0.1234, Round4(0.12349))
	assert.Equal(t, 0.9999, Round4(0.99999))
	assert.Equal(t, 0.0, Round4(0.00001))
	assert.Equal(t, 1.0, Round4(1.0))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.42, Clamp01(0.42))
}

package mcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	assert.NoError(t, validateKey("a"))
	assert.NoError(t, validateKey("user:123"))
	assert.ErrorIs(t, validateKey(""), ErrInvalidKey)
}

func TestValidateKeys(t *testing.T) {
	assert.NoError(t, validateKeys(nil))
	assert.NoError(t, validateKeys([]string{"a", "b"}))

	err := validateKeys([]string{"a", "", "c"})
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Contains(t, err.Error(), "index 1")
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "user:123", buildKey("", "user:123"))
	assert.Equal(t, "app:user:123", buildKey("app:", "user:123"))
	// 纯拼接，无转义
	assert.Equal(t, "p k", buildKey("p", " k"))
}

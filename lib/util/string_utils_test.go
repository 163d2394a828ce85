package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalString(t *testing.T) {
	assert.Equal(t, "yes", ConditionalString(true, "yes", "no"))
	assert.Equal(t, "no", ConditionalString(false, "yes", "no"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestEscapeLuceneTerm(t *testing.T) {
	assert.Equal(t, "abc123", EscapeLuceneTerm("abc123"))
	assert.Equal(t, `x\" OR user_id:* OR a:\"`, EscapeLuceneTerm(`x" OR user_id:* OR a:"`))
	assert.Equal(t, `a\\\"b`, EscapeLuceneTerm(`a\"b`))
}

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAvatar(t *testing.T) {
	got := DefaultAvatar("a@x.com")
	assert.Equal(t, "//www.gravatar.com/avatar/743173788aa9166801df2e18f0e7ff24?d=mm&r=pg&s=200", got)
}

func TestGravatar_IgnoresCaseAndWhitespace(t *testing.T) {
	avatar := Gravatar(80, "g", "identicon")

	assert.Equal(t, avatar("a@x.com"), avatar("  A@X.com "))
	assert.Contains(t, avatar("a@x.com"), "s=80")
	assert.NotEqual(t, avatar("a@x.com"), avatar("b@x.com"))
}

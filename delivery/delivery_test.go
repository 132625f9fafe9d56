package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("noreply@test.com", "alice@test.com", "Your verification code", "Your verification code is 123456.")
	assert.Equal(t,
		"From: noreply@test.com\r\nTo: alice@test.com\r\nSubject: Your verification code\r\n\r\nYour verification code is 123456.",
		string(msg))
}

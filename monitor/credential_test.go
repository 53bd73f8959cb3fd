package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialInvalidNotifiesOnce(t *testing.T) {
	var subjects []string
	notify = func(subject string, content string) {
		subjects = append(subjects, subject)
	}
	defer func() { notify = notifyOperator }()

	CredentialRestored("AIzaSyExampleKey1234")
	CredentialInvalid("gemini", "AIzaSyExampleKey1234", "Requested entity was not found.")
	CredentialInvalid("gemini", "AIzaSyExampleKey1234", "Requested entity was not found.")

	h := Health()
	assert.False(t, h.Valid)
	assert.Equal(t, "gemini", h.Provider)
	assert.NotContains(t, h.MaskedKey, "ExampleKey")
	assert.Len(t, subjects, 1)

	CredentialRestored("AIzaSyOtherKey5678")
	assert.True(t, Health().Valid)
	assert.Empty(t, Health().Reason)
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *SyncError
		expected string
	}{
		{
			name:     "code and message",
			err:      NewConfigError("ROOT_NOT_FOUND", "root not found"),
			expected: "[ROOT_NOT_FOUND] root not found",
		},
		{
			name:     "with file path",
			err:      NewPolicyError("NO_CSP_META", "no CSP meta tag").WithFile("pages/index.html"),
			expected: "[NO_CSP_META] pages/index.html no CSP meta tag",
		},
		{
			name:     "with cause",
			err:      NewIOError("READ_FAILED", "cannot read file", fmt.Errorf("permission denied")),
			expected: "[READ_FAILED] cannot read file: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSyncErrorIs(t *testing.T) {
	err := NewPolicyError("NO_TARGET_DIRECTIVE", "no script-src directive").WithFile("a.html")
	target := NewPolicyError("NO_TARGET_DIRECTIVE", "different message")

	assert.True(t, errors.Is(err, target))
	assert.False(t, errors.Is(err, NewPolicyError("NO_CSP_META", "no CSP meta tag")))
}

func TestSyncErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewIOError("WRITE_FAILED", "cannot write file", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestRecoverable(t *testing.T) {
	assert.False(t, IsRecoverable(NewConfigError("BAD_ROOT", "bad root")))
	assert.True(t, IsRecoverable(NewIOError("READ_FAILED", "read failed", nil)))
	assert.True(t, IsRecoverable(NewPolicyError("NO_CSP_META", "no meta")))
	assert.False(t, IsRecoverable(fmt.Errorf("plain error")))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitDirty, ExitCode(NewExitError(ExitDirty, fmt.Errorf("1 file(s) would change"))))
	assert.Equal(t, ExitConfig, ExitCode(NewExitError(ExitConfig, NewConfigError("BAD_ROOT", "bad root"))))
	assert.Equal(t, ExitConfig, ExitCode(fmt.Errorf("plain error")))
}

func TestExitErrorWrapsCause(t *testing.T) {
	cause := NewConfigError("ROOT_NOT_FOUND", "root not found")
	err := NewExitError(ExitConfig, cause)

	assert.Equal(t, cause.Error(), err.Error())
	assert.True(t, errors.Is(err, cause))
}

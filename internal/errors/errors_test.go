package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := Credential("Invalid credentials")
	assert.Equal(t, "Invalid credentials", err.Error())

	wrapped := Wrap(stderrors.New("boom"), ErrCodeTransient, "request failed")
	assert.Equal(t, "request failed: boom", wrapped.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeTransient, "nope"))
	assert.Nil(t, Wrapf(nil, ErrCodeTransient, "nope %d", 1))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(cause, ErrCodeUnauthorized, "session expired")

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrCodeUnauthorized, appErr.Code)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsCredential(Credential("bad")))
	assert.True(t, IsUnauthorized(Unauthorized("expired")))
	assert.True(t, IsTransient(Transient("timeout")))
	assert.True(t, IsCache(Cache("corrupt entry")))
	assert.True(t, IsValidation(ValidationField("password", "Passwords do not match")))
	assert.True(t, IsInternal(Internalf("unexpected: %s", "state")))

	assert.False(t, IsUnauthorized(Transient("timeout")))
	assert.False(t, IsTransient(nil))
}

func TestPredicates_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("profile fetch: %w", Unauthorized("expired"))
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, ErrCodeUnauthorized, GetCode(err))
}

func TestGetCode_NonAppError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(stderrors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Account disabled", UserMessage(Credential("Account disabled"), "Invalid credentials"))
	assert.Equal(t, "Invalid credentials", UserMessage(stderrors.New("dial tcp: refused"), "Invalid credentials"))
	assert.Equal(t, "Invalid credentials", UserMessage(nil, "Invalid credentials"))
}

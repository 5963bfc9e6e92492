package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryFor(t *testing.T) {
	assert.Equal(t, RecoverWithFallback, RecoveryFor(ProvisioningFailure))
	assert.Equal(t, RecoverWithEmptyContext, RecoveryFor(RetrievalFailure))
	assert.Equal(t, RecoverWithTerminalEvent, RecoveryFor(BackendFailure))
	assert.Equal(t, RecoverByLogging, RecoveryFor(ShutdownCleanupFailure))
	assert.Equal(t, RecoverByLogging, RecoveryFor(FailureKind(99)))
}

func TestFailure_Wrapping(t *testing.T) {
	cause := errors.New("connection refused")

	err := NewFailure(BackendFailure, "complete", cause)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "backend_failure: complete: connection refused", err.Error())

	wrapped := fmt.Errorf("beach agent: %w", err)
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, BackendFailure, kind)

	var f *Failure
	require.ErrorAs(t, wrapped, &f)
	assert.Equal(t, RecoverWithTerminalEvent, f.Recovery())

	_, ok = KindOf(cause)
	assert.False(t, ok)
	assert.NoError(t, NewFailure(RetrievalFailure, "search", nil))
}

func TestContent_Text(t *testing.T) {
	c := Content{Role: "user", Parts: []Part{TextPart{Text: "a"}, DataPart{}, TextPart{Text: "b"}}}
	assert.Equal(t, "ab", c.Text())
	assert.Equal(t, "hi", NewTextContent("user", "hi").Text())
}

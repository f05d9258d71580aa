package contracts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerNotFoundError(t *testing.T) {
	t.Run("message names the request type", func(t *testing.T) {
		err := &HandlerNotFoundError{RequestType: "ArchiveOrder"}
		assert.Contains(t, err.Error(), "ArchiveOrder")
	})

	t.Run("detected through wrapping", func(t *testing.T) {
		err := fmt.Errorf("dispatch: %w", &HandlerNotFoundError{RequestType: "ArchiveOrder"})

		assert.True(t, IsHandlerNotFound(err))

		var hnf *HandlerNotFoundError
		require.ErrorAs(t, err, &hnf)
		assert.Equal(t, "ArchiveOrder", hnf.RequestType)
	})

	t.Run("unrelated errors are not matched", func(t *testing.T) {
		assert.False(t, IsHandlerNotFound(errors.New("boom")))
		assert.False(t, IsHandlerNotFound(nil))
	})
}

func TestInvocationError(t *testing.T) {
	t.Run("exposes the original cause", func(t *testing.T) {
		cause := errors.New("type assertion failed")
		err := &InvocationError{RequestType: "ArchiveOrder", Cause: cause}

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, cause, errors.Unwrap(err))
		assert.Contains(t, err.Error(), "ArchiveOrder")
	})
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(context.DeadlineExceeded))
	assert.True(t, IsCancellation(fmt.Errorf("stage: %w", context.Canceled)))
	assert.False(t, IsCancellation(errors.New("handler fault")))
	assert.False(t, IsCancellation(nil))
}

package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	t.Run("wrapped chain keeps outer code", func(t *testing.T) {
		cause := errors.New("pq: connection refused")
		err := fmt.Errorf("allocate: %w", Wrap(cause, CodeInternal, "failed to allocate mark"))

		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, "failed to allocate mark", Message(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("plain errors classify as internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, GetCode(errors.New("boom")))
		assert.Empty(t, Message(errors.New("boom")))
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeConflict, "unused"))
	})

	t.Run("domain codes are distinct", func(t *testing.T) {
		err := New(CodeAlreadyAllocated, "vehicle already holds a mark")
		assert.True(t, Is(err, CodeAlreadyAllocated))
		assert.False(t, Is(err, CodeConflict))
	})
}

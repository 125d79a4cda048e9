package circuit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immat/pkg/platform/sentinel"
)

var errBroker = errors.New("broker down")

func fail() error { return errBroker }
func succeed() error { return nil }

func TestBreaker_InitialState(t *testing.T) {
	b := New("test")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "test", b.Name())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("test", WithFailureThreshold(3))

	// First two failures don't open
	require.ErrorIs(t, b.Execute(fail), errBroker)
	require.ErrorIs(t, b.Execute(fail), errBroker)
	assert.False(t, b.IsOpen())

	// Third failure opens the circuit
	require.ErrorIs(t, b.Execute(fail), errBroker)
	assert.True(t, b.IsOpen())
}

func TestBreaker_OpenCircuitRejectsWithoutCalling(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithOpenTimeout(time.Hour))
	_ = b.Execute(fail)

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("test", WithFailureThreshold(3))

	_ = b.Execute(fail)
	_ = b.Execute(fail)
	require.NoError(t, b.Execute(succeed))

	_ = b.Execute(fail)
	_ = b.Execute(fail)
	assert.False(t, b.IsOpen())

	_ = b.Execute(fail)
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterHalfOpenTrial(t *testing.T) {
	var transitions []State
	b := New("test",
		WithFailureThreshold(1),
		WithOpenTimeout(10*time.Millisecond),
		WithStateChange(func(_, to State) { transitions = append(transitions, to) }),
	)
	_ = b.Execute(fail)
	require.True(t, b.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(succeed))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, []State{StateOpen, StateHalfOpen, StateClosed}, transitions)
}

package retrypolicy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Do_SucceedsFirstAttempt(t *testing.T) {
	policy := New(3, 0)

	attempts := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestPolicy_Do_ExhaustsAttempts(t *testing.T) {
	policy := New(3, 0)

	attempts := 0
	failure := errors.New("backend down")
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return failure
	})

	// Ровно три попытки, возвращается ошибка последней
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, attempts)
}

func TestPolicy_Do_RecoversMidway(t *testing.T) {
	policy := New(3, 0)

	attempts := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestNew_ClampsAttempts(t *testing.T) {
	policy := New(0, 0)
	assert.Equal(t, 1, policy.MaxAttempts())

	attempts := 0
	_ = policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("nope")
	})
	assert.Equal(t, 1, attempts)
}

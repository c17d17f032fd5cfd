package simpletxmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure_VisibleThroughCommitWrap(t *testing.T) {
	commitErr := fmt.Errorf("%w: commit: %w", ErrTransaction, &pq.Error{Code: "40001"})
	assert.True(t, isSerializationFailure(commitErr))
}

func TestIsSerializationFailure_OtherErrors(t *testing.T) {
	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("boom")))
	assert.False(t, isSerializationFailure(
		fmt.Errorf("%w: commit: %w", ErrTransaction, &pq.Error{Code: "23P01"})))
}

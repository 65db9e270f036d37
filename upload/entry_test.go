package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryTransition(t *testing.T) {
	t.Parallel()

	t.Run("full lifecycle", func(t *testing.T) {
		t.Parallel()

		e := &Entry{Status: StatusPending}
		for _, next := range []Status{
			StatusValidated,
			StatusDestinationResolved,
			StatusMaterialized,
			StatusTransformed,
			StatusTransformed, // repeated transforms are legal
			StatusRecorded,
		} {
			require.NoError(t, e.transition(next))
			assert.Equal(t, next, e.Status)
		}
	})

	t.Run("skipping a step is illegal", func(t *testing.T) {
		t.Parallel()

		e := &Entry{Status: StatusPending}
		err := e.transition(StatusMaterialized)
		require.ErrorIs(t, err, ErrInvalidStatus)
		assert.Equal(t, StatusPending, e.Status)
	})

	t.Run("recorded only rolls back", func(t *testing.T) {
		t.Parallel()

		e := &Entry{Status: StatusRecorded}
		require.ErrorIs(t, e.transition(StatusValidated), ErrInvalidStatus)
		require.NoError(t, e.transition(StatusRejected))
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		t.Parallel()

		e := &Entry{Status: StatusRejected}
		require.ErrorIs(t, e.transition(StatusValidated), ErrInvalidStatus)
	})
}

func TestEntryReject(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	e := &Entry{Status: StatusMaterialized}
	err := e.reject(cause)

	assert.Equal(t, StatusRejected, e.Status)
	assert.Same(t, cause, e.Err)
	assert.Same(t, cause, err)
}

func TestEntryIsImage(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Entry{Group: "image"}).IsImage())
	assert.False(t, (&Entry{Group: "document"}).IsImage())
	assert.False(t, (&Entry{}).IsImage())
}

func TestSourceKindIsImport(t *testing.T) {
	t.Parallel()

	assert.False(t, SourceForm.isImport())
	assert.False(t, SourceStream.isImport())
	assert.True(t, SourceLocalImport.isImport())
	assert.True(t, SourceRemoteImport.isImport())
}

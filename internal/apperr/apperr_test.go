package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	require.Equal(t, "[NOT_FOUND] not found", NotFound().Error())
	require.Equal(t, "[VALIDATION] name: This field may not be blank.", Validation("name", "This field may not be blank.").Error())
	require.Equal(t, "[INTERNAL] internal server error: boom", Internal(errors.New("boom")).Error())
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("GetRecipe: %w", NotFound())
	require.Equal(t, CodeNotFound, CodeOf(wrapped))
	require.True(t, Is(wrapped, CodeNotFound))
	require.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	require.False(t, Is(nil, CodeInternal))

	cause := errors.New("db")
	require.ErrorIs(t, Internal(cause), cause)
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInternal:        http.StatusInternalServerError,
		KindValidation:      http.StatusBadRequest,
		KindNotFound:        http.StatusNotFound,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindConflict:        http.StatusConflict,
		KindUpstream:        http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestWrappedErrorKeepsKindAndStack(t *testing.T) {
	base := errors.New("smtp down")
	err := fmt.Errorf("forgot: %w", Upstream("Email could not be sent", base))

	assert.True(t, Is(err, KindUpstream))
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.ErrorIs(t, err, base)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Email could not be sent", ae.Message)
	assert.Contains(t, Stack(err), "apperr_test.go")
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "", Stack(errors.New("boom")))
}

func TestInternalMessageIncludesCause(t *testing.T) {
	err := Internal(errors.New("db closed"))
	assert.Equal(t, "Internal Server Error: db closed", err.Error())
	assert.Equal(t, "Not here", NotFound("Not here").Error())
}

package errors

import (
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, CodePermissionDenied.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, CodeInvalidUTF8.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeAlreadyWatching.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeNotWatching.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, CodeValidation.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeInternal.HTTPStatus())
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("path does not exist: %s", "/tmp/x")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrPermissionDenied))
}

func TestError_WrappingPreservesCause(t *testing.T) {
	cause := fs.ErrPermission
	err := Wrap(cause, CodePermissionDenied, "access denied")

	assert.True(t, Is(err, fs.ErrPermission))
	assert.Equal(t, cause, Unwrap(err))
	assert.Contains(t, err.Error(), "access denied")
}

func TestError_WithDetails(t *testing.T) {
	base := Validation("bad request")
	detailed := base.WithDetails(map[string]string{"field": "path"})

	assert.Equal(t, CodeValidation, detailed.Code)
	assert.NotNil(t, detailed.Details)
	// The original is unchanged.
	assert.Nil(t, base.Details)
}

func TestFromOS_NotExist(t *testing.T) {
	_, osErr := os.Stat(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, osErr)

	err := FromOS(osErr, "/tmp/missing")
	require.NotNil(t, err)
	assert.Equal(t, CodeNotFound, err.Code)
	assert.True(t, Is(err, fs.ErrNotExist))
}

func TestFromOS_Permission(t *testing.T) {
	err := FromOS(fs.ErrPermission, "/root/secret")
	require.NotNil(t, err)
	assert.Equal(t, CodePermissionDenied, err.Code)
}

func TestFromOS_Unknown(t *testing.T) {
	err := FromOS(assert.AnError, "/tmp/odd")
	require.NotNil(t, err)
	assert.Equal(t, CodeInternal, err.Code)
	assert.True(t, Is(err, assert.AnError))
}

func TestFromOS_Nil(t *testing.T) {
	assert.Nil(t, FromOS(nil, "/tmp/fine"))
}

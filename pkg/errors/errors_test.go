package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForPolicyViolation(t *testing.T) {
	meta := MetadataFor(CodePolicyViolation)
	assert.Equal(t, http.StatusUnprocessableEntity, meta.HTTPStatus)
	assert.True(t, meta.DetailsAllowed)
	assert.False(t, meta.Retryable)
}

func TestMetadataForUnknownFallsBackToInternal(t *testing.T) {
	assert.Equal(t, MetadataFor(CodeInternal), MetadataFor(Code("nope")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := fmt.Errorf("save: %w", Wrap(CodeDependency, cause, "persist snapshot"))

	typed := As(err)
	require.NotNil(t, typed)
	assert.Equal(t, CodeDependency, typed.Code())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, CodeDependency))
	assert.Equal(t, CodeInternal, CodeOf(cause))
	assert.Equal(t, "DEPENDENCY_ERROR: persist snapshot: disk full", typed.Error())
	assert.Equal(t, "NOT_FOUND: request not found", New(CodeNotFound, "request not found").Error())
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeStateConflict, "request already approved"))
	dump := Dump(err)
	assert.Equal(t, CodeStateConflict, dump.Code)
	assert.Len(t, dump.Chain, 2)
	assert.Empty(t, dump.PGCode)
}

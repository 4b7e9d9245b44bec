package sl_test

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_WrappedError(t *testing.T) {
	err := fmt.Errorf("storage.GetUserByUserID: %w", errors.New("connection refused"))

	assert.Equal(t, "storage.GetUserByUserID: connection refused", sl.Err(err).Value.String())
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, "<nil>", attr.Value.String())
	})
}

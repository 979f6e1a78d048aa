package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

func TestBindingErrorMessage(t *testing.T) {
	type form struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
		Kind  string `validate:"oneof=a b c"`
	}

	v := validator.New()
	err := v.Struct(form{Email: "not-an-email", Kind: "d"})
	require.Error(t, err)

	msg := BindingErrorMessage(err)
	assert.Contains(t, msg, "Name is required")
	assert.Contains(t, msg, "Email must be a valid email")
	assert.Contains(t, msg, "Kind must be one of: a b c")

	assert.Equal(t, "boom", BindingErrorMessage(errors.New("boom")))
}

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.NewNotFound("batch", nil), http.StatusNotFound},
		{apperrors.NewBadRequest("bad", nil), http.StatusBadRequest},
		{apperrors.NewConflict("dup", nil), http.StatusConflict},
		{apperrors.NewExport(nil), http.StatusBadGateway},
		{apperrors.NewInternal(nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFromError(tc.err))
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"wallet-transaction-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes and validates the request body, turning binding failures
// into REQ_001 errors worded for clients.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperror.Validation(bindingMessage(err))
	}
	return nil
}

func bindingMessage(err error) string {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+": "+ruleMessage(fe))
		}
		return strings.Join(msgs, "; ")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if field == "" {
			return "Invalid request body."
		}
		return field + ": Incorrect type. Expected " + typeErr.Type.String() + "."
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "JSON parse error."
	case errors.Is(err, io.EOF):
		return "Request body is empty."
	}
	return "Invalid request body."
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "decimal_string":
		return "A valid number is required."
	case "txid":
		return "Must not contain control characters."
	}
	return "Invalid value."
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "guestgate/internal/errors"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error" example:"Not Found"`
	Message string `json:"message" example:"Guest with nameId 42 not found"`
}

// parsePathID parses a numeric path parameter.
// Returns ErrInvalidInput naming label if the parameter is not a valid integer.
func parsePathID(c *gin.Context, param, label string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, label+" must be a valid numeric value")
	}
	return id, nil
}

// bindJSON decodes the request body into obj. An empty body leaves obj
// untouched. Decoding and validation failures become ErrInvalidInput.
func bindJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		// ShouldBindJSON skips validation on an empty body.
		err = c.ShouldBindWith(obj, noBodyBinding{})
	}
	if err == nil {
		return nil
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err))
}

// noBodyBinding runs validation without decoding anything.
type noBodyBinding struct{}

func (noBodyBinding) Name() string { return "nobody" }

func (noBodyBinding) Bind(_ *http.Request, obj any) error {
	return binding.Validator.ValidateStruct(obj)
}

// bindingMessage turns a binding error into a message fit for clients.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "notblank":
			return fe.Field() + " is required and must not be blank"
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("%s is invalid", fe.Field())
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String())
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Request body must be valid JSON"
	}
	return "Invalid request body"
}

// abortWithError hands err to the error middleware and stops the chain.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

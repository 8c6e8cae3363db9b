package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail describes a single failed field.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

// ValidationErrorData is the data payload of a validation error response.
type ValidationErrorData struct {
	Errors []ValidationErrorDetail `json:"errors"`
}

// BindAndValidate binds the request body to obj and validates it. On failure
// it writes a structured 400 response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var details []ValidationErrorDetail

	switch e := err.(type) {
	case validator.ValidationErrors:
		for _, fe := range e {
			detail := ValidationErrorDetail{
				Field:    fe.Field(),
				Message:  fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag()),
				Expected: fe.Param(),
				Received: fe.Value(),
			}
			if detail.Expected == "" {
				detail.Expected = fe.Tag()
			}

			switch fe.Tag() {
			case "required":
				detail.Message = fmt.Sprintf("Field '%s' is required", fe.Field())
				detail.Expected = "not null"
			case "min":
				detail.Message = fmt.Sprintf("Field '%s' must be at least %s characters long", fe.Field(), fe.Param())
				detail.Expected = fmt.Sprintf("min length %s", fe.Param())
			case "max":
				detail.Message = fmt.Sprintf("Field '%s' must be at most %s characters long", fe.Field(), fe.Param())
				detail.Expected = fmt.Sprintf("max length %s", fe.Param())
			}

			details = append(details, detail)
		}
	case *json.UnmarshalTypeError:
		details = append(details, ValidationErrorDetail{
			Field:    e.Field,
			Message:  fmt.Sprintf("Field '%s' has invalid type", e.Field),
			Expected: e.Type.String(),
			Received: e.Value,
		})
	default:
		details = append(details, ValidationErrorDetail{
			Field:    "body",
			Message:  "Malformed JSON or invalid request body",
			Expected: "valid JSON",
			Received: "invalid",
		})
	}

	c.JSON(http.StatusBadRequest, Response{
		Status:  http.StatusBadRequest,
		Message: "Invalid request parameters",
		Data:    ValidationErrorData{Errors: details},
	})
	return false
}

package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"placeshare/internal/httperr"
	"placeshare/internal/middleware"
)

const dbTimeout = 5 // seconds, applied to every database call

// fail records the error on the context and aborts; the formatter middleware
// writes the response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// failValidation translates binding errors into the 422 contract, naming the
// offending fields where the validator reports them.
func failValidation(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fail(c, httperr.Validation("Invalid data received"))
		return
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "min":
			details = append(details, fmt.Sprintf("%s is too short", field))
		case "email":
			details = append(details, fmt.Sprintf("%s is not a valid email", field))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	fail(c, httperr.Validation("Invalid data received: "+strings.Join(details, ", ")))
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// requesterID returns the identity the auth middleware attached.
func requesterID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

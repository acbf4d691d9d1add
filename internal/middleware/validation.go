package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"adoption-server/internal/schemas"
	"adoption-server/internal/utils"
	"adoption-server/internal/validators"
)

// ValidateAndSanitizeStruct binds the request body into a fresh instance of
// the given payload type, sanitizes its string fields and validates it.
// The sanitized payload is stored in the context for the handler.
func ValidateAndSanitizeStruct(obj interface{}) gin.HandlerFunc {
	payloadType := reflect.TypeOf(obj).Elem()

	return func(c *gin.Context) {
		payload := reflect.New(payloadType).Interface()

		if err := c.ShouldBindJSON(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		validator := validators.GetValidator()
		if err := validator.SanitizeData(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		if err := validator.Validate.Struct(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), payload)
		c.Next()
	}
}

package handlers

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/orris-inc/deskhub/internal/application/user/usecases"
	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/device"
	"github.com/orris-inc/deskhub/internal/interfaces/http/middleware"
	"github.com/orris-inc/deskhub/internal/shared/constants"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/utils"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		utils.RegisterCustomValidations(v)
	}
}

// bindJSON decodes the body into req and writes a validation error response when it
// is malformed. It reports whether the handler should continue.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, utils.FieldErrorMessage(fe))
		}
		utils.ErrorResponseWithError(c, errors.NewValidationError("Validation failed", strings.Join(messages, "; ")))
		return false
	}

	utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
	return false
}

// deviceMetadata describes the device a sign-in request came from.
func deviceMetadata(c *gin.Context) user.DeviceMetadata {
	return device.Metadata(
		c.ClientIP(),
		c.GetHeader(constants.HeaderUserAgent),
		c.GetHeader(constants.HeaderSystem),
		c.GetHeader(constants.HeaderDeviceFingerprint),
	)
}

// currentCaller reads the identity attached by the auth middleware.
func currentCaller(c *gin.Context) (usecases.Caller, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return usecases.Caller{}, false
	}
	sessionID, ok := middleware.CurrentSessionID(c)
	if !ok {
		return usecases.Caller{}, false
	}
	return usecases.Caller{UserID: userID, SessionID: sessionID}, true
}

func respondUnauthenticated(c *gin.Context) {
	utils.ErrorResponseWithError(c, errors.NewAuthenticationRequiredError())
}

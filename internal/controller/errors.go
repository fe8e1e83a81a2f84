package controller

import (
	"errors"
	"net/http"

	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinels onto the response envelope. Unknown
// errors become a logged 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrOutcomeNotFound),
		errors.Is(err, util.ErrRequirementNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrPaymentNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(c)

	case errors.Is(err, util.ErrQuizInactive),
		errors.Is(err, util.ErrAttemptsExhausted),
		errors.Is(err, util.ErrNotEnrolled):
		// Access denied for a stated reason the client can show.
		util.ForbiddenReason(c, err.Error())

	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)

	case errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrCourseIsFree),
		errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrUsernameRegistered):
		util.BadRequest(c, err.Error())

	case errors.Is(err, util.ErrPaymentRequired):
		util.Error(c, http.StatusPaymentRequired, err.Error())

	case errors.Is(err, util.ErrInvalidCredentials),
		errors.Is(err, util.ErrAccountDisabled):
		util.Error(c, http.StatusUnauthorized, err.Error())

	default:
		util.LogInternalError(c, err)
	}
}

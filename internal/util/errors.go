package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrUsernameRegistered  = errors.New("username already taken")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrCourseNotFound      = errors.New("course not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrOutcomeNotFound     = errors.New("course outcome not found")
	ErrRequirementNotFound = errors.New("course requirement not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuizInactive        = errors.New("quiz is not accepting attempts")
	ErrAttemptsExhausted   = errors.New("maximum attempts reached for this quiz")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrInvalidQuestion     = errors.New("invalid question definition")
	ErrPaymentRequired     = errors.New("payment required to enroll in this course")
	ErrCourseIsFree        = errors.New("course is free, no payment needed")
	ErrPaymentNotFound     = errors.New("payment not found")
)

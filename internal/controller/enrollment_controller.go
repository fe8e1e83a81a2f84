package controller

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary Enroll in a course; paid courses need a verified payment first
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 201 {object} util.Response
// @Failure 402 {object} util.Response
// @Router /api/v1/courses/{id}/enroll [post]
func (ctrl *EnrollmentController) Enroll(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(c)
	enrollment, err := ctrl.EnrollmentService.Enroll(claims.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, enrollment)
}

// CheckEnrollment godoc
// @Summary Check whether the caller is enrolled in a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/enrollment [get]
func (ctrl *EnrollmentController) CheckEnrollment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(c)
	enrolled, err := ctrl.EnrollmentService.IsEnrolled(claims.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"enrolled": enrolled})
}

// MyCourses godoc
// @Summary List the caller's enrolled courses with progress
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/my/courses [get]
func (ctrl *EnrollmentController) MyCourses(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	courses, err := ctrl.EnrollmentService.ListEnrolledCourses(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, courses)
}

// LearningView godoc
// @Summary Get the learning view of an enrolled course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/my/courses/{id} [get]
func (ctrl *EnrollmentController) LearningView(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(c)
	view, err := ctrl.EnrollmentService.GetLearningView(claims.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, view)
}

// CompleteLesson godoc
// @Summary Mark a lesson complete for the caller
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/v1/lessons/{id}/complete [post]
func (ctrl *EnrollmentController) CompleteLesson(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.EnrollmentService.CompleteLesson(claims.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

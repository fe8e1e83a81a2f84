package controller

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// StudentOverview godoc
// @Summary Get the caller's student dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/dashboard/student [get]
func (ctrl *DashboardController) StudentOverview(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	dashboard, err := ctrl.DashboardService.StudentOverview(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, dashboard)
}

// InstructorOverview godoc
// @Summary Get the caller's instructor dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/dashboard/instructor [get]
func (ctrl *DashboardController) InstructorOverview(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	dashboard, err := ctrl.DashboardService.InstructorOverview(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, dashboard)
}

// CourseStudents godoc
// @Summary List enrolled students and their progress for a course
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/students [get]
func (ctrl *DashboardController) CourseStudents(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rows, err := ctrl.DashboardService.CourseStudents(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, rows)
}

// CourseStudentDetail godoc
// @Summary Get one student's standing in a course
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/students/{studentId} [get]
func (ctrl *DashboardController) CourseStudentDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseID(c, "studentId")
	if !ok {
		return
	}

	detail, err := ctrl.DashboardService.CourseStudentDetail(util.GetUserFromContext(c), id, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, detail)
}

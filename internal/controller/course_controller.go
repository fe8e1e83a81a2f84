package controller

import (
	"strconv"

	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// ListCatalog godoc
// @Summary List the public course catalog
// @Tags courses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/v1/courses [get]
func (ctrl *CourseController) ListCatalog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := ctrl.CourseService.ListCatalog(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// GetCourse godoc
// @Summary Get one course with modules, lessons, outcomes and requirements
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/courses/{id} [get]
func (ctrl *CourseController) GetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	course, err := ctrl.CourseService.GetCourseDetail(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, course)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} util.Response
// @Router /api/v1/courses [post]
func (ctrl *CourseController) CreateCourse(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	course, err := ctrl.CourseService.CreateCourse(util.GetUserFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body service.UpdateCourseRequest true "Course fields"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id} [put]
func (ctrl *CourseController) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	course, err := ctrl.CourseService.UpdateCourse(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, course)
}

// DeleteCourse godoc
// @Summary Delete a course and its content
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id} [delete]
func (ctrl *CourseController) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.CourseService.DeleteCourse(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// MyCourses godoc
// @Summary List courses owned by the authenticated instructor
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/instructor/courses [get]
func (ctrl *CourseController) MyCourses(c *gin.Context) {
	courses, err := ctrl.CourseService.ListByInstructor(util.GetUserFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, courses)
}

// CreateModule godoc
// @Summary Create a module inside a course
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateModuleRequest true "Module payload"
// @Success 201 {object} util.Response
// @Router /api/v1/modules [post]
func (ctrl *CourseController) CreateModule(c *gin.Context) {
	var req service.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	m, err := ctrl.CourseService.CreateModule(util.GetUserFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, m)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param request body service.UpdateModuleRequest true "Module fields"
// @Success 200 {object} util.Response
// @Router /api/v1/modules/{id} [put]
func (ctrl *CourseController) UpdateModule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	m, err := ctrl.CourseService.UpdateModule(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, m)
}

// DeleteModule godoc
// @Summary Delete a module; its lessons detach back to the course
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} util.Response
// @Router /api/v1/modules/{id} [delete]
func (ctrl *CourseController) DeleteModule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.CourseService.DeleteModule(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// ReorderModules godoc
// @Summary Reorder a course's modules
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body service.ReorderModulesRequest true "Ordered module ids"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/modules/reorder [put]
func (ctrl *CourseController) ReorderModules(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ReorderModulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if err := ctrl.CourseService.ReorderModules(util.GetUserFromContext(c), id, &req); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// GetInstructor godoc
// @Summary Get an instructor's public profile and courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/instructors/{id} [get]
func (ctrl *CourseController) GetInstructor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	profile, err := ctrl.CourseService.GetInstructorProfile(id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, profile)
}

// CreateOutcome godoc
// @Summary Add a learning outcome to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body service.OutcomeRequest true "Outcome payload"
// @Success 201 {object} util.Response
// @Router /api/v1/courses/{id}/outcomes [post]
func (ctrl *CourseController) CreateOutcome(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	outcome, err := ctrl.CourseService.AddOutcome(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, outcome)
}

// ListOutcomes godoc
// @Summary List a course's learning outcomes, for authoring
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/outcomes [get]
func (ctrl *CourseController) ListOutcomes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	outcomes, err := ctrl.CourseService.ListOutcomes(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, outcomes)
}

// UpdateOutcome godoc
// @Summary Update a learning outcome
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Outcome ID"
// @Param request body service.UpdateOutcomeRequest true "Outcome fields"
// @Success 200 {object} util.Response
// @Router /api/v1/outcomes/{id} [put]
func (ctrl *CourseController) UpdateOutcome(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	outcome, err := ctrl.CourseService.UpdateOutcome(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, outcome)
}

// DeleteOutcome godoc
// @Summary Delete a learning outcome
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Outcome ID"
// @Success 200 {object} util.Response
// @Router /api/v1/outcomes/{id} [delete]
func (ctrl *CourseController) DeleteOutcome(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.CourseService.DeleteOutcome(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

// CreateRequirement godoc
// @Summary Add a requirement to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body service.OutcomeRequest true "Requirement payload"
// @Success 201 {object} util.Response
// @Router /api/v1/courses/{id}/requirements [post]
func (ctrl *CourseController) CreateRequirement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	requirement, err := ctrl.CourseService.AddRequirement(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, requirement)
}

// ListRequirements godoc
// @Summary List a course's requirements, for authoring
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/requirements [get]
func (ctrl *CourseController) ListRequirements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	requirements, err := ctrl.CourseService.ListRequirements(util.GetUserFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, requirements)
}

// UpdateRequirement godoc
// @Summary Update a requirement
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requirement ID"
// @Param request body service.UpdateOutcomeRequest true "Requirement fields"
// @Success 200 {object} util.Response
// @Router /api/v1/requirements/{id} [put]
func (ctrl *CourseController) UpdateRequirement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	requirement, err := ctrl.CourseService.UpdateRequirement(util.GetUserFromContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, requirement)
}

// DeleteRequirement godoc
// @Summary Delete a requirement
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requirement ID"
// @Success 200 {object} util.Response
// @Router /api/v1/requirements/{id} [delete]
func (ctrl *CourseController) DeleteRequirement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.CourseService.DeleteRequirement(util.GetUserFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

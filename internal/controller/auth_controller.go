package controller

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a new student account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctrl.AuthService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	user.Password = ""
	util.Created(c, user)
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Login payload"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/v1/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	resp, err := ctrl.AuthService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, resp)
}

// Profile godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/auth/profile [get]
func (ctrl *AuthController) Profile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	user, err := ctrl.AuthService.GetProfile(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, user)
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} util.Response
// @Router /api/v1/auth/profile [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	user, err := ctrl.AuthService.UpdateProfile(claims.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, user)
}

// ChangePassword godoc
// @Summary Change the authenticated user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ChangePasswordRequest true "Password change payload"
// @Success 200 {object} util.Response
// @Router /api/v1/auth/password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.AuthService.ChangePassword(claims.UserID, &req); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainUser "device-lending-backend/internal/domain/user"
	"device-lending-backend/internal/middleware"
	"device-lending-backend/internal/usecase/user"
	"device-lending-backend/pkg/utils"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/:user_id", h.GetUser)
		users.PATCH("/:user_id", h.UpdateUser)
		users.DELETE("/:user_id", h.DeleteUser)
	}
}

func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", resp)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	actorID, actorRole, ok := currentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	resp, err := h.service.GetUser(c.Request.Context(), actorID, actorRole, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User retrieved", resp)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, actorRole, ok := currentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateUser(c.Request.Context(), actorID, actorRole, userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated", resp)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, actorRole, ok := currentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), actorID, actorRole, userID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted", nil)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var req user.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListUsers(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved", resp)
}

func currentUser(c *gin.Context) (uuid.UUID, domainUser.Role, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := middleware.CurrentRole(c)
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, domainUser.Role(role), true
}

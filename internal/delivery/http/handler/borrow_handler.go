package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainUser "device-lending-backend/internal/domain/user"
	"device-lending-backend/internal/middleware"
	"device-lending-backend/internal/usecase/borrow"
	"device-lending-backend/pkg/utils"
)

type BorrowHandler struct {
	service *borrow.Service
}

func NewBorrowHandler(service *borrow.Service) *BorrowHandler {
	return &BorrowHandler{service: service}
}

func (h *BorrowHandler) RegisterRoutes(router *gin.RouterGroup) {
	borrows := router.Group("/borrows")
	{
		borrows.POST("", h.CreateBorrow)
		borrows.GET("", h.ListBorrows)
		borrows.GET("/:borrow_id", h.GetBorrow)
		borrows.PATCH("/:borrow_id", h.UpdateBorrow)
	}

	// Nested under the user resource so the path shares its param name.
	router.GET("/users/:user_id/borrows", h.ListBorrowsByUser)
}

func (h *BorrowHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/devices/:device_id/borrows", h.ListBorrowsByDevice)
	router.DELETE("/borrows/:borrow_id", h.DeleteBorrow)
}

// currentActor resolves the authenticated caller set by the auth middleware.
func currentActor(c *gin.Context) (borrow.Actor, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return borrow.Actor{}, false
	}
	role, ok := middleware.CurrentRole(c)
	if !ok {
		return borrow.Actor{}, false
	}
	return borrow.Actor{ID: userID, Role: domainUser.Role(role)}, true
}

func (h *BorrowHandler) CreateBorrow(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req borrow.CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Borrow request created", resp)
}

func (h *BorrowHandler) GetBorrow(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	borrowID, err := uuid.Parse(c.Param("borrow_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid borrow id")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actor, borrowID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Borrow retrieved", resp)
}

func (h *BorrowHandler) UpdateBorrow(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	borrowID, err := uuid.Parse(c.Param("borrow_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid borrow id")
		return
	}

	var req borrow.UpdateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actor, borrowID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Borrow updated", resp)
}

func (h *BorrowHandler) ListBorrows(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req borrow.ListBorrowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.List(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Borrows retrieved", resp)
}

// ListBorrowsByUser returns one user's borrow history, restricted to the
// owner or staff.
func (h *BorrowHandler) ListBorrowsByUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	if actor.Role != domainUser.RoleAdmin && userID != actor.ID {
		utils.ErrorResponse(c, http.StatusForbidden, "not the owner of these borrow records")
		return
	}

	var req borrow.ListBorrowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	req.UserID = &userID

	resp, err := h.service.List(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Borrows retrieved", resp)
}

// ListBorrowsByDevice returns a device's borrow history for staff.
func (h *BorrowHandler) ListBorrowsByDevice(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	deviceID, err := uuid.Parse(c.Param("device_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device id")
		return
	}

	var req borrow.ListBorrowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	req.DeviceID = &deviceID

	resp, err := h.service.List(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Borrows retrieved", resp)
}

func (h *BorrowHandler) DeleteBorrow(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	borrowID, err := uuid.Parse(c.Param("borrow_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid borrow id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, borrowID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Borrow deleted", nil)
}

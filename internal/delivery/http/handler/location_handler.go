package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"device-lending-backend/internal/usecase/location"
	"device-lending-backend/pkg/utils"
)

type LocationHandler struct {
	service *location.Service
}

func NewLocationHandler(service *location.Service) *LocationHandler {
	return &LocationHandler{service: service}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	locations := router.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.GET("/:location_id", h.GetLocation)
	}
}

func (h *LocationHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	locations := router.Group("/locations")
	{
		locations.POST("", h.CreateLocation)
		locations.PUT("/:location_id", h.UpdateLocation)
		locations.DELETE("/:location_id", h.DeleteLocation)
	}
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req location.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateLocation(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Location created", resp)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid location id")
		return
	}

	resp, err := h.service.GetLocation(c.Request.Context(), locationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Location retrieved", resp)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid location id")
		return
	}

	var req location.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateLocation(c.Request.Context(), locationID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Location updated", resp)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid location id")
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), locationID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Location deleted", nil)
}

func (h *LocationHandler) ListLocations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.service.ListLocations(c.Request.Context(), page, pageSize)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Locations retrieved", resp)
}

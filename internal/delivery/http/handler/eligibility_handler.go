package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"device-lending-backend/internal/usecase/eligibility"
	"device-lending-backend/pkg/utils"
)

type EligibilityHandler struct {
	service *eligibility.Service
}

func NewEligibilityHandler(service *eligibility.Service) *EligibilityHandler {
	return &EligibilityHandler{service: service}
}

func (h *EligibilityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/eligibility/check", h.CheckZipCode)
}

type checkEligibilityRequest struct {
	ZipCode string `json:"zip_code"`
}

// CheckZipCode lets applicants test their address before registering.
func (h *EligibilityHandler) CheckZipCode(c *gin.Context) {
	var req checkEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CheckZipCode(c.Request.Context(), req.ZipCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Eligibility checked", resp)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"device-lending-backend/internal/logger"
	"device-lending-backend/internal/middleware"
	appErrors "device-lending-backend/pkg/errors"
	"device-lending-backend/pkg/utils"
)

// respondWithError maps the error taxonomy onto HTTP statuses. Store errors
// are logged with the request id and hidden behind a generic message.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case appErrors.CodeValidation:
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
		case appErrors.CodeAuthorization:
			utils.ErrorResponse(c, http.StatusForbidden, appErr.Message)
		case appErrors.CodeNotFound:
			utils.ErrorResponse(c, http.StatusNotFound, appErr.Message)
		case appErrors.CodeConflict:
			utils.ErrorResponse(c, http.StatusConflict, appErr.Message)
		default:
			logStoreError(c, err)
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	default:
		logStoreError(c, err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

func logStoreError(c *gin.Context, err error) {
	logger.Error("Internal server error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
}

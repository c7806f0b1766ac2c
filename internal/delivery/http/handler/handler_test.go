package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"device-lending-backend/internal/logger"
	"device-lending-backend/internal/usecase/borrow"
	"device-lending-backend/internal/usecase/eligibility"
	"device-lending-backend/pkg/utils"
)

type stubGeocoder struct {
	lat float64
	lng float64
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	return s.lat, s.lng, nil
}

func setupTest() {
	gin.SetMode(gin.TestMode)
	logger.Logger = zap.NewNop()
}

func TestEligibilityHandler(t *testing.T) {
	setupTest()

	svc := eligibility.NewService(&stubGeocoder{lat: 28.5449, lng: -81.3856}, 5, time.Minute)
	h := NewEligibilityHandler(svc)

	router := gin.New()
	h.RegisterRoutes(router.Group(""))

	t.Run("eligible zip", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/eligibility/check", strings.NewReader(`{"zip_code":"32801"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body utils.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)

		data, err := json.Marshal(body.Data)
		require.NoError(t, err)
		var result eligibility.Result
		require.NoError(t, json.Unmarshal(data, &result))
		assert.True(t, result.Eligible)
	})

	t.Run("malformed zip", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/eligibility/check", strings.NewReader(`{"zip_code":"notazip"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBorrowHandlerRejectsBadInput(t *testing.T) {
	setupTest()

	h := NewBorrowHandler(borrow.NewService(nil, nil, nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", uuid.New())
		c.Set("role", "user")
	})
	h.RegisterRoutes(router.Group(""))
	h.RegisterAdminRoutes(router.Group(""))

	t.Run("malformed json body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/borrows", strings.NewReader("{not json"))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed borrow id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/borrows/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBorrowHandlerRequiresAuthContext(t *testing.T) {
	setupTest()

	h := NewBorrowHandler(borrow.NewService(nil, nil, nil))

	router := gin.New()
	h.RegisterRoutes(router.Group(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/borrows", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

//go:build contract

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/loadsight/pallet-analysis/internal/domain/dto"
	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"github.com/loadsight/pallet-analysis/internal/middleware"
	"github.com/loadsight/pallet-analysis/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const analyzeBody = `{"boxes": [{"position": {"x": 0, "y": 1, "z": 0}, "dimensions": {"x": 4, "y": 2, "z": 3}, "sequence": 0, "item_type": 1, "weight_grams": 5000}], "height_cm": 20}`

// TestAPI_ContractCompliance validates that API responses match the documented contract.
func TestAPI_ContractCompliance(t *testing.T) {
	sessions := service.NewSessionService()
	handler := NewHandler(sessions)
	healthHandler := NewHealthHandler()

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(), middleware.ErrorHandler())
	healthHandler.Register(router)
	api := router.Group("/api")
	api.POST("/analyze", handler.Analyze)

	tests := []struct {
		name             string
		method           string
		path             string
		body             string
		headers          map[string]string
		expectedStatus   int
		validateResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "POST /api/analyze - Success 200",
			method:         http.MethodPost,
			path:           "/api/analyze",
			body:           analyzeBody,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.SuccessResponse
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				require.NoError(t, err)

				// Validate dto.SuccessResponse structure
				assert.NotEmpty(t, resp.RequestID, "Response must include request_id")
				assert.NotZero(t, resp.Timestamp, "Response must include timestamp")
				assert.NotNil(t, resp.Data, "Response must include data")

				// Validate MetricsSnapshot structure
				snapshot, ok := resp.Data.(map[string]interface{})
				require.True(t, ok, "Data must be a MetricsSnapshot")

				assert.Contains(t, snapshot, "computed_at")
				assert.Contains(t, snapshot, "box_count")
				assert.Contains(t, snapshot, "grid")
				assert.Contains(t, snapshot, "stability")
				assert.Contains(t, snapshot, "volume")

				boxCount, ok := snapshot["box_count"].(float64)
				require.True(t, ok)
				assert.Equal(t, float64(1), boxCount)

				grid, ok := snapshot["grid"].(map[string]interface{})
				require.True(t, ok)
				assert.Contains(t, grid, "rows")
				assert.Contains(t, grid, "cols")
				assert.Contains(t, grid, "cells")
				assert.Contains(t, grid, "total_weight_kg")

				stability, ok := snapshot["stability"].(map[string]interface{})
				require.True(t, ok)
				assert.Contains(t, stability, "value")
				assert.Contains(t, stability, "rating")
				assert.Contains(t, stability, "center_of_mass_score")
				assert.Contains(t, stability, "weight_distribution_score")

				volume, ok := snapshot["volume"].(map[string]interface{})
				require.True(t, ok)
				assert.Contains(t, volume, "efficiency_percent")
				assert.Contains(t, volume, "occupied_volume")
			},
		},
		{
			name:           "POST /api/analyze - Error 400 Invalid JSON",
			method:         http.MethodPost,
			path:           "/api/analyze",
			body:           `invalid json`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				require.NoError(t, err)

				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.NotEmpty(t, resp.Message)
				assert.NotEmpty(t, resp.RequestID)
				assert.NotZero(t, resp.Timestamp)
			},
		},
		{
			name:           "POST /api/analyze - Error 400 Empty Box List",
			method:         http.MethodPost,
			path:           "/api/analyze",
			body:           `{"boxes": []}`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				require.NoError(t, err)

				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.NotEmpty(t, resp.Message)
				assert.NotEmpty(t, resp.RequestID)
				assert.NotZero(t, resp.Timestamp)
			},
		},
		{
			name:           "GET /healthz - Success 200",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				require.NoError(t, err)

				assert.Contains(t, resp, "status")
				assert.Equal(t, "ok", resp["status"])
			},
		},
		{
			name:           "GET /readyz - Success 200",
			method:         http.MethodGet,
			path:           "/readyz",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				require.NoError(t, err)

				assert.Contains(t, resp, "status")
				assert.Contains(t, resp, "checks")
				assert.Equal(t, "ok", resp["status"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Status code mismatch")
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

			// Validate X-Request-ID header
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "Response must include X-Request-ID header")

			if tt.validateResponse != nil {
				tt.validateResponse(t, w)
			}
		})
	}
}

// TestAPI_ResponseSchema validates response schemas match the contract.
func TestAPI_ResponseSchema(t *testing.T) {
	sessions := service.NewSessionService()
	handler := NewHandler(sessions)

	router := gin.New()
	router.Use(middleware.RequestID())
	api := router.Group("/api")
	api.POST("/analyze", handler.Analyze)

	t.Run("SuccessResponse schema validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte(analyzeBody)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SuccessResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		// Validate all required fields
		assert.NotEmpty(t, resp.RequestID)
		assert.NotZero(t, resp.Timestamp)
		assert.NotNil(t, resp.Data)

		// Validate data is a MetricsSnapshot
		dataBytes, _ := json.Marshal(resp.Data)
		var snapshot model.MetricsSnapshot
		err = json.Unmarshal(dataBytes, &snapshot)
		require.NoError(t, err)

		assert.Equal(t, 1, snapshot.BoxCount)
		assert.NotZero(t, snapshot.ComputedAt)
		assert.Greater(t, snapshot.Grid.TotalWeightKg, 0.0)
		assert.GreaterOrEqual(t, snapshot.Stability.Value, 0.0)
		assert.LessOrEqual(t, snapshot.Stability.Value, 100.0)
		assert.NotEmpty(t, snapshot.Stability.Rating)
	})

	t.Run("ErrorResponse schema validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte(`{"boxes": []}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		// Validate error response structure
		assert.NotEmpty(t, resp.Error)
		assert.NotEmpty(t, resp.Message)
		assert.NotEmpty(t, resp.RequestID)
		assert.NotZero(t, resp.Timestamp)
	})
}

// TestAPI_Headers validates required headers are present.
func TestAPI_Headers(t *testing.T) {
	sessions := service.NewSessionService()
	handler := NewHandler(sessions)
	healthHandler := NewHealthHandler()

	router := gin.New()
	router.Use(middleware.RequestID())
	healthHandler.Register(router)
	api := router.Group("/api")
	api.POST("/analyze", handler.Analyze)

	tests := []struct {
		name            string
		method          string
		path            string
		body            string
		expectedHeaders map[string]string
	}{
		{
			name:   "X-Request-ID header present",
			method: http.MethodPost,
			path:   "/api/analyze",
			body:   analyzeBody,
			expectedHeaders: map[string]string{
				"X-Request-ID": "",
			},
		},
		{
			name:   "Health endpoint headers",
			method: http.MethodGet,
			path:   "/healthz",
			expectedHeaders: map[string]string{
				"X-Request-ID": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			for headerName, expectedValue := range tt.expectedHeaders {
				actualValue := w.Header().Get(headerName)
				if expectedValue == "" {
					assert.NotEmpty(t, actualValue, "Header %s must be present", headerName)
				} else {
					assert.Equal(t, expectedValue, actualValue, "Header %s mismatch", headerName)
				}
			}
		})
	}
}

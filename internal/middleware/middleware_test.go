package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
	}{
		{"not found", apperrors.ErrClassNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "class not found"},
		{"wrapped not found", fmt.Errorf("error getting class: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "student not found"},
		{"conflict", apperrors.NewConflictError("class already has a class teacher"), http.StatusConflict, dto.ErrorCodeConflict, "class already has a class teacher"},
		{"validation", fmt.Errorf("%w: invalid month %q", apperrors.ErrValidationFailed, "Smarch"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, `validation failed: invalid month "Smarch"`},
		{"zero denominator", apperrors.NewZeroDenominatorError("no students registered"), http.StatusUnprocessableEntity, dto.ErrorCodeAggregateUndefined, "no students registered"},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestHandleAPIErrorKeepsDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewResourceNotFoundError("student not found: [4 5]").
		WithDetails(map[string]interface{}{"kind": "student"}))

	resp := decodeError(t, w)
	assert.Equal(t, map[string]interface{}{"kind": "student"}, resp.Error.Details)
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "schoolcore-test",
	})
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	r.GET("/any", m.JWTAuth(), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	r.POST("/admin", m.JWTAuth(), m.RoleRequired(auth.RolePrincipal), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, jwtService
}

func TestJWTAuthAndRoles(t *testing.T) {
	r, jwtService := newAuthRouter(t)

	principalToken, err := jwtService.GenerateAccessToken(auth.Principal{ID: 1, Role: auth.RolePrincipal})
	require.NoError(t, err)
	teacherToken, err := jwtService.GenerateAccessToken(auth.Principal{ID: 7, Role: auth.RoleTeacher})
	require.NoError(t, err)

	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "schoolcore-test"})
	forged, err := other.GenerateAccessToken(auth.Principal{ID: 1, Role: auth.RolePrincipal})
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"missing header", http.MethodGet, "/any", "", http.StatusUnauthorized, dto.ErrorCodeTokenMissing},
		{"bad format", http.MethodGet, "/any", "Basic abc", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"forged signature", http.MethodGet, "/any", "Bearer " + forged, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"any role reads", http.MethodGet, "/any", "Bearer " + teacherToken, http.StatusOK, ""},
		{"teacher cannot mutate", http.MethodPost, "/admin", "Bearer " + teacherToken, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"principal mutates", http.MethodPost, "/admin", "Bearer " + principalToken, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
			}
		})
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	const incoming = "9f1c2d1e-3b4a-4c5d-8e6f-7a8b9c0d1e2f"
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
}

func TestBindJSONUsesCustomRules(t *testing.T) {
	require.NoError(t, RegisterBindingRules())

	r := gin.New()
	r.POST("/fees", func(c *gin.Context) {
		var req dto.MarkFeeStatusRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"studentId":1,"month":"march","status":"paid"}`, http.StatusNoContent},
		{"bad month", `{"studentId":1,"month":"Smarch","status":"paid"}`, http.StatusBadRequest},
		{"missing student", `{"month":"March","status":"paid"}`, http.StatusBadRequest},
		{"malformed", `{"studentId":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/fees", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusBadRequest {
				assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)
			}
		})
	}
}

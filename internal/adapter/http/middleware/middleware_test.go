package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"studioflow/internal/adapter/http/handlers/mocks"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newAuthRouter(auth usecase.IAuthUseCase) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(auth))
	r.GET("/api/me", func(c *gin.Context) {
		u, ok := Actor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, u.UID)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("valid bearer stores actor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		auth := mocks.NewMockIAuthUseCase(ctrl)
		auth.EXPECT().Authenticate(gomock.Any(), "tok").Return(entities.User{UID: "u-1", Role: entities.RoleCOO}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		newAuthRouter(auth).ServeHTTP(w, req)

		if w.Code != http.StatusOK || w.Body.String() != "u-1" {
			t.Fatalf("expected 200 u-1, got %d %s", w.Code, w.Body.String())
		}
	})

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "unauthenticated", err: usecase.ErrUnauthenticated, status: http.StatusUnauthorized},
		{name: "inactive", err: usecase.ErrAccountInactive, status: http.StatusForbidden},
		{name: "store failure", err: errors.New("dynamo down"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			auth := mocks.NewMockIAuthUseCase(ctrl)
			auth.EXPECT().Authenticate(gomock.Any(), "").Return(entities.User{}, tc.err)

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			w := httptest.NewRecorder()
			newAuthRouter(auth).ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected permissive origin, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"studioflow/internal/adapter/http/middleware"
	"studioflow/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

var (
	coo      = entities.User{UID: "coo-1", Name: "Chief Ops", Role: entities.RoleCOO, Status: entities.UserStatusActive}
	designer = entities.User{UID: "des-1", Name: "Dana", Role: entities.RoleDesigner, Status: entities.UserStatusActive}
)

// newRouter mounts routes behind a stub that authenticates every request as actor.
func newRouter(actor entities.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	})
	return r
}

func doJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body == "" {
		buf = &bytes.Buffer{}
	} else {
		buf = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json response: %v (%s)", err, w.Body.String())
	}
	return body
}

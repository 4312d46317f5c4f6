package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoutes_SwaggerUI 测试 Swagger UI 路由
func TestRoutes_SwaggerUI(t *testing.T) {
	router := setupRouter(&fakeMyWorkService{})

	w := doGet(router, "/swagger/index.html", false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}

// TestRoutes_SwaggerJSON 文档覆盖全部我的工作接口，无需认证即可访问
func TestRoutes_SwaggerJSON(t *testing.T) {
	router := setupRouter(&fakeMyWorkService{})

	w := doGet(router, "/swagger/doc.json", false)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger  string                     `json:"swagger"`
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{"/my-work/tasks", "/my-work/sections", "/my-work/available", "/my-work/counts"} {
		assert.Contains(t, doc.Paths, path)
	}
}

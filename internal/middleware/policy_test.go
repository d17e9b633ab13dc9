package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/stretchr/testify/assert"
)

func evalRequest(t *testing.T, policies []Policy, method, path string, ident Identity, params gin.Params) bool {
	t.Helper()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, path, nil)
	c.Params = params
	return Evaluate(policies, c, ident)
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	policies := []Policy{
		{PathPrefix: "/api/v1/things/special", Allow: func(*gin.Context, Identity) bool { return true }},
		{PathPrefix: "/api/v1/things", Allow: func(*gin.Context, Identity) bool { return false }},
	}

	patient := Identity{UserID: 1, Role: model.RolePatient}

	assert.True(t, evalRequest(t, policies, http.MethodGet, "/api/v1/things/special", patient, nil))
	assert.False(t, evalRequest(t, policies, http.MethodGet, "/api/v1/things/ordinary", patient, nil))
}

func TestEvaluate_MethodFilter(t *testing.T) {
	policies := []Policy{
		{PathPrefix: "/api/v1/doctors", Methods: []string{"POST", "DELETE"}, Allow: AdminOnly},
	}

	patient := Identity{UserID: 1, Role: model.RolePatient}

	// GET falls through the table entirely and defaults to allow.
	assert.True(t, evalRequest(t, policies, http.MethodGet, "/api/v1/doctors", patient, nil))
	assert.False(t, evalRequest(t, policies, http.MethodPost, "/api/v1/doctors", patient, nil))
}

func TestSelfOrAdmin(t *testing.T) {
	decision := SelfOrAdmin("id")

	tests := []struct {
		name  string
		ident Identity
		param string
		want  bool
	}{
		{name: "admin on anyone", ident: Identity{UserID: 1, Role: model.RoleAdmin}, param: "99", want: true},
		{name: "patient on self", ident: Identity{UserID: 5, Role: model.RolePatient}, param: "5", want: true},
		{name: "patient on other", ident: Identity{UserID: 5, Role: model.RolePatient}, param: "6", want: false},
		{name: "malformed param denies", ident: Identity{UserID: 5, Role: model.RolePatient}, param: "abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/users/"+tt.param, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.param}}

			assert.Equal(t, tt.want, decision(c, tt.ident))
		})
	}
}

func TestDefaultPolicies_UserRows(t *testing.T) {
	policies := DefaultPolicies()
	patient := Identity{UserID: 5, Role: model.RolePatient}
	admin := Identity{UserID: 1, Role: model.RoleAdmin}

	selfParams := gin.Params{{Key: "id", Value: "5"}}
	otherParams := gin.Params{{Key: "id", Value: "6"}}

	// Reads on a specific user: self or admin.
	assert.True(t, evalRequest(t, policies, http.MethodGet, "/api/v1/users/5", patient, selfParams))
	assert.False(t, evalRequest(t, policies, http.MethodGet, "/api/v1/users/6", patient, otherParams))

	// The listing is admin-only even though per-user reads are not.
	assert.False(t, evalRequest(t, policies, http.MethodGet, "/api/v1/users", patient, nil))
	assert.True(t, evalRequest(t, policies, http.MethodGet, "/api/v1/users", admin, nil))

	// Deletes are admin-only, even on self.
	assert.False(t, evalRequest(t, policies, http.MethodDelete, "/api/v1/users/5", patient, selfParams))
	assert.True(t, evalRequest(t, policies, http.MethodDelete, "/api/v1/users/5", admin, selfParams))
}

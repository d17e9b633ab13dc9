package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/model"
)

// Identity is the authenticated caller as seen by authorization.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// Decision decides whether an identity may perform the matched request.
type Decision func(c *gin.Context, ident Identity) bool

// Policy is one row of the authorization table. Empty Methods matches every
// method. Matching is by path prefix against the request URL path.
type Policy struct {
	PathPrefix string
	Methods    []string
	Allow      Decision
}

func (p Policy) matches(method, path string) bool {
	if !strings.HasPrefix(path, p.PathPrefix) {
		return false
	}
	if len(p.Methods) == 0 {
		return true
	}
	for _, m := range p.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Evaluate walks the table in order and applies the first matching row.
// Order is the precedence: put specific rows before general ones. A request
// matching no row is allowed for any authenticated identity.
func Evaluate(policies []Policy, c *gin.Context, ident Identity) bool {
	for _, p := range policies {
		if p.matches(c.Request.Method, c.Request.URL.Path) {
			return p.Allow(c, ident)
		}
	}
	return true
}

// AllowAuthenticated admits any authenticated identity.
func AllowAuthenticated(_ *gin.Context, _ Identity) bool {
	return true
}

// AdminOnly admits only the admin role.
func AdminOnly(_ *gin.Context, ident Identity) bool {
	return ident.Role == model.RoleAdmin
}

// SelfOrAdmin admits admins, and any identity whose user ID equals the
// numeric path parameter. A malformed parameter denies; the handler will
// report it as a 400 only if the request gets that far via an admin.
func SelfOrAdmin(param string) Decision {
	return func(c *gin.Context, ident Identity) bool {
		if ident.Role == model.RoleAdmin {
			return true
		}
		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil {
			return false
		}
		return uint(id) == ident.UserID
	}
}

// DefaultPolicies is the ordered authorization table for the API. Writes to
// clinic resources are staff operations; reads and booking are open to any
// authenticated user.
func DefaultPolicies() []Policy {
	return []Policy{
		{PathPrefix: "/api/v1/admin", Allow: AdminOnly},
		{PathPrefix: "/api/v1/emails", Allow: AdminOnly},
		{PathPrefix: "/api/v1/doctors", Methods: []string{"POST", "PUT", "PATCH", "DELETE"}, Allow: AdminOnly},
		{PathPrefix: "/api/v1/queues", Methods: []string{"POST", "DELETE"}, Allow: AdminOnly},
		{PathPrefix: "/api/v1/appointments", Methods: []string{"PATCH"}, Allow: AdminOnly},
		{PathPrefix: "/api/v1/users", Methods: []string{"DELETE"}, Allow: AdminOnly},
		{PathPrefix: "/api/v1/users", Methods: []string{"PUT", "PATCH"}, Allow: SelfOrAdmin("id")},
		// The row with the trailing slash matches /users/:id reads and must
		// precede the bare-prefix row that guards the listing.
		{PathPrefix: "/api/v1/users/", Methods: []string{"GET"}, Allow: SelfOrAdmin("id")},
		{PathPrefix: "/api/v1/users", Methods: []string{"GET"}, Allow: AdminOnly},
		{PathPrefix: "/api/v1", Allow: AllowAuthenticated},
	}
}

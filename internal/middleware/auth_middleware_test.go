package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/constants"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
)

type stubParser map[string]*service.Claims

func (p stubParser) ParseToken(token string) (*service.Claims, error) {
	if claims, ok := p[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

func newAuthRouter(guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	parser := stubParser{
		"admin":    {UserID: 1, Email: "admin@example.com", Role: authorization.RoleAdmin, Plan: authorization.PlanEnterprise},
		"support":  {UserID: 2, Email: "help@example.com", Role: authorization.RoleSupport, Plan: authorization.PlanPro},
		"customer": {UserID: 3, Email: "loja@example.com", Role: authorization.RoleCustomer, Plan: authorization.PlanFree},
	}

	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(parser)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(constants.ContextUserID),
			"plan":    c.MustGet(constants.ContextPlan),
		})
	})
	router.GET("/protected", handlers...)
	return router
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthRouter()

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{name: "bearer", header: "Bearer customer", status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer customer", status: http.StatusOK},
		{name: "cookie", cookie: "customer", status: http.StatusOK},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer forged", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: constants.AuthTokenCookieName, Value: tt.cookie})
			}
			if rec := serve(router, req); rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAdminAndPermissionGuards(t *testing.T) {
	admin := newAuthRouter(AdminMiddleware())
	viewUsers := newAuthRouter(RequirePermission(authorization.PermissionViewUsers))

	tests := []struct {
		router *gin.Engine
		token  string
		status int
	}{
		{admin, "admin", http.StatusOK},
		{admin, "support", http.StatusForbidden},
		{admin, "customer", http.StatusForbidden},
		{viewUsers, "support", http.StatusOK},
		{viewUsers, "customer", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tt.token)
		if rec := serve(tt.router, req); rec.Code != tt.status {
			t.Fatalf("token %s: expected %d, got %d", tt.token, tt.status, rec.Code)
		}
	}
}

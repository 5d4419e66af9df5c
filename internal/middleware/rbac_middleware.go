package middleware

import (
	"context"
	"net/http"

	"go-erp/internal/rbac"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextEmployeeID ContextKey = "employee_id"
	ContextCompanyID  ContextKey = "company_id"
)

type RBACService interface {
	Enforce(ctx context.Context, req rbac.EnforceRequest) (bool, error)
}

func enforce(c *gin.Context, service RBACService, resource, action string) (bool, bool) {
	employeeID := c.GetString(string(ContextEmployeeID))
	companyID := c.GetString(string(ContextCompanyID))
	if employeeID == "" || companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
		c.Abort()
		return false, false
	}

	allowed, err := service.Enforce(c.Request.Context(), rbac.EnforceRequest{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Resource:   resource,
		Action:     action,
	})
	if err != nil {
		abortWith(c, apperror.ErrInternal)
		return false, false
	}
	return allowed, true
}

// RBACAuthorize rejects the request unless the caller holds resource:action.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, ok := enforce(c, service, resource, action)
		if !ok {
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				"You do not have permission to access this resource", gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RBACFlag records whether the caller holds resource:action under key and
// always lets the request through; the handler decides what the flag means.
func RBACFlag(service RBACService, resource, action, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, ok := enforce(c, service, resource, action)
		if !ok {
			return
		}
		c.Set(key, allowed)
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Permission actions derived from the HTTP method
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// RequireResource checks "<resource>:<action>" where the action follows the method:
// GET -> read, POST -> create, PUT/PATCH -> update, DELETE -> delete
func RequireResource(resource string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		check(c, resource+":"+MethodToAction(c.Request.Method), log)
	}
}

// RequirePermission checks one fixed permission code
func RequirePermission(permission string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		check(c, permission, log)
	}
}

// MethodToAction converts an HTTP method to a permission action
func MethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}

func check(c *gin.Context, permission string, log *zap.Logger) {
	claims := GetJWTClaims(c)
	if claims != nil && claims.HasPermission(permission) {
		c.Next()
		return
	}

	if log != nil {
		userID := ""
		if claims != nil {
			userID = claims.UserID
		}
		log.Warn("Permission denied",
			zap.String("user_id", userID),
			zap.String("permission", permission),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden,
		"Access denied: missing permission "+permission,
		GetRequestID(c),
	))
}

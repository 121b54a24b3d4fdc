// Package router assembles the gin engine: the global middleware stack and
// the versioned API route groups.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/domain/identity"
)

// APIPrefix is the mount point of every route group
const APIPrefix = "/api/v1"

// resourceGroup collects the routes of one resource before they are mounted.
// Group middleware runs ahead of each route's own guards.
type resourceGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func newGroup(prefix string, middleware ...gin.HandlerFunc) *resourceGroup {
	return &resourceGroup{prefix: prefix, middleware: middleware}
}

func (g *resourceGroup) handle(method, path string, handlers ...gin.HandlerFunc) {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
}

// crudHandlers are the five standard endpoints of a resource
type crudHandlers struct {
	Create, List, Get, Update, Delete gin.HandlerFunc
}

// crud registers the standard routes, each behind the permission for its action
func (g *resourceGroup) crud(resource string, can guard, h crudHandlers) {
	g.handle(http.MethodPost, "", can(resource, identity.ActionCreate), h.Create)
	g.handle(http.MethodGet, "", can(resource, identity.ActionRead), h.List)
	g.handle(http.MethodGet, "/:id", can(resource, identity.ActionRead), h.Get)
	g.handle(http.MethodPut, "/:id", can(resource, identity.ActionUpdate), h.Update)
	g.handle(http.MethodDelete, "/:id", can(resource, identity.ActionDelete), h.Delete)
}

// statusRoutes registers POST /:id/activate and /:id/deactivate as updates
func (g *resourceGroup) statusRoutes(resource string, can guard, activate, deactivate gin.HandlerFunc) {
	g.handle(http.MethodPost, "/:id/activate", can(resource, identity.ActionUpdate), activate)
	g.handle(http.MethodPost, "/:id/deactivate", can(resource, identity.ActionUpdate), deactivate)
}

// guard builds the permission check for resource:action
type guard func(resource, action string) gin.HandlerFunc

// mount registers the groups on engine under APIPrefix
func mount(engine *gin.Engine, groups ...*resourceGroup) {
	api := engine.Group(APIPrefix)
	for _, g := range groups {
		rg := api.Group(g.prefix, g.middleware...)
		for _, r := range g.routes {
			rg.Handle(r.method, r.path, r.handlers...)
		}
	}
}

// Package router mounts the portal and desk HTTP API on a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes below the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// Router collects route groups and mounts them under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	groups     []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAPIMiddleware runs middleware before every versioned route, ahead of
// the per-group guards
func WithAPIMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.middleware = append(r.middleware, middleware...)
	}
}

// NewRouter creates a router for engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a group; nothing reaches the engine before Setup
func (r *Router) Register(group RouteRegistrar) *Router {
	r.groups = append(r.groups, group)
	return r
}

// Setup mounts every registered group in registration order
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.apiVersion, r.middleware...)
	for _, group := range r.groups {
		group.RegisterRoutes(api)
	}
}

// DomainGroup is the routes of one resource, e.g. /tickets, sharing the
// same guard chain
type DomainGroup struct {
	name   string
	prefix string
	guards []gin.HandlerFunc
	routes []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates an empty group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use appends guards run before every route of the group
func (dg *DomainGroup) Use(guards ...gin.HandlerFunc) *DomainGroup {
	dg.guards = append(dg.guards, guards...)
	return dg
}

// GET adds a read route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST adds a create or action route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT adds an upsert route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: path, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group(dg.prefix, dg.guards...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the path below /api/<version>
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

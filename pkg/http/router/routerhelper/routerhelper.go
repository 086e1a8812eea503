package routerhelper

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers handlers under a shared path prefix.
type RouteGroup struct {
	router *httprouter.Router
	prefix string
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{router: router, prefix: prefix}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{router: g.router, prefix: g.prefix + prefix}
}

func (g *RouteGroup) GET(path string, handle httprouter.Handle) {
	g.router.GET(g.prefix+path, handle)
}

func (g *RouteGroup) POST(path string, handle httprouter.Handle) {
	g.router.POST(g.prefix+path, handle)
}

func (g *RouteGroup) DELETE(path string, handle httprouter.Handle) {
	g.router.DELETE(g.prefix+path, handle)
}

func (g *RouteGroup) Handler(method, path string, handler http.Handler) {
	g.router.Handler(method, g.prefix+path, handler)
}

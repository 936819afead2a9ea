// Package routes builds the service http.Handler from registered route
// groups.
package routes

import (
	"log/slog"
	"net/http"

	pkgroutes "github.com/Davidmarkwilcox/ScannerApp/pkg/routes"
)

type registry struct {
	routes []pkgroutes.Route
	groups []pkgroutes.Group
	logger *slog.Logger
}

// New creates an empty route registry.
func New(logger *slog.Logger) pkgroutes.System {
	return &registry{logger: logger}
}

func (r *registry) RegisterRoute(route pkgroutes.Route) { r.routes = append(r.routes, route) }
func (r *registry) RegisterGroup(group pkgroutes.Group) { r.groups = append(r.groups, group) }
func (r *registry) Routes() []pkgroutes.Route           { return r.routes }
func (r *registry) Groups() []pkgroutes.Group           { return r.groups }

// Build flattens the registered groups into fully prefixed routes and
// mounts each as a "METHOD pattern" entry on a ServeMux.
func (r *registry) Build() http.Handler {
	mux := http.NewServeMux()
	for _, route := range r.flatten() {
		mux.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
		r.logger.Debug("route registered", "method", route.Method, "pattern", route.Pattern)
	}
	return mux
}

// flatten walks the group tree depth-first, concatenating each group's
// prefix onto its routes' patterns.
func (r *registry) flatten() []pkgroutes.Route {
	flat := append([]pkgroutes.Route(nil), r.routes...)

	var walk func(prefix string, group pkgroutes.Group)
	walk = func(prefix string, group pkgroutes.Group) {
		prefix += group.Prefix
		for _, route := range group.Routes {
			flat = append(flat, pkgroutes.Route{
				Method:  route.Method,
				Pattern: prefix + route.Pattern,
				Handler: route.Handler,
			})
		}
		for _, child := range group.Children {
			walk(prefix, child)
		}
	}
	for _, group := range r.groups {
		walk("", group)
	}

	return flat
}

// Package module wires the profesores API into HTTP via modkit
package module

import (
	"net/http"

	"profescore/internal/modkit"
	"profescore/internal/modkit/httpkit"
	"profescore/internal/platform/strings"
	"profescore/internal/services/api/profesores/domain"

	profesoreshttp "profescore/internal/services/api/profesores/http"
	"profescore/internal/services/api/profesores/service"
)

// Ports exposes the service port for cross-module lookups
type Ports struct {
	Service domain.ServicePort
}

// Module implements the profesores module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     Ports
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *service.Service
}

// New constructs the profesores module
// docs is the listing source the service resolves against
func New(deps modkit.Deps, docs service.Documents, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append(
		[]modkit.Option{modkit.WithName("profesores"), modkit.WithPrefix("/profesores")},
		opts...,
	)...)

	svc := service.New(docs)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Service: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		profesoreshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name is the module name
func (m *Module) Name() string { return strings.MustString(m.name, "module name") }

// Prefix is the module route prefix
func (m *Module) Prefix() string { return strings.MustPrefix(m.prefix) }

// Middlewares is the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

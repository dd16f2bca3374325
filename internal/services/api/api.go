// Package api provides the HTTP API for the application
package api

import (
	"profescore/internal/adapters/source"
	"profescore/internal/platform/config"
	"profescore/internal/platform/logger"
	phttp "profescore/internal/platform/net/http"

	"profescore/internal/modkit"
	"profescore/internal/modkit/httpkit"
	"profescore/internal/modkit/module"
	"profescore/internal/modkit/swaggerkit"

	metamod "profescore/internal/services/api/meta/module"
	profesoresmod "profescore/internal/services/api/profesores/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Sources        *source.Cache
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		metamod.New(deps, opt.Sources),
		profesoresmod.New(deps, opt.Sources),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}

// @title         Profescore API
// @version       0.1.0
// @description   Professor rating resolution against misprofesores.com listings

package main

import (
	"context"

	"profescore/internal/adapters/source"
	"profescore/internal/platform/config"
	"profescore/internal/platform/logger"
	phttp "profescore/internal/platform/net/http"

	"profescore/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// listing cache (reads SOURCE_TTL / SOURCE_TIMEOUT / SOURCE_*_URL)
	sources := source.New(source.FromConfig(root)...)

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Sources:        sources,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"profescore/internal/adapters/source"
	"profescore/internal/core/version"
	"profescore/internal/modkit/httpkit"
)

// Warmth is satisfied by the listing cache and reports per-slot freshness
type Warmth interface {
	Warm(source.Key) bool
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Sources     Warmth
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// mount routes
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"profescore-api"`
	Started string `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck describes one listing slot's cache state
type ReadyCheck struct {
	Name   string `json:"name"   example:"facultad"`
	Status string `json:"status" example:"warm"` // warm cold skipped
}

// ReadyResponse summarizes readiness
// a cold slot is not a failure, the next lookup fills it on demand
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok cold
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"profescore-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with listing cache state
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	check := func(key source.Key) ReadyCheck {
		if h.deps.Sources == nil {
			return ReadyCheck{Name: string(key), Status: "skipped"}
		}
		if h.deps.Sources.Warm(key) {
			return ReadyCheck{Name: string(key), Status: "warm"}
		}
		return ReadyCheck{Name: string(key), Status: "cold"}
	}

	primary := check(source.KeyPrimary)
	fallback := check(source.KeyFallback)

	overall := "ok"
	if primary.Status == "cold" && fallback.Status == "cold" {
		overall = "cold"
	}

	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{primary, fallback},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

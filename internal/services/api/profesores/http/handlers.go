// Package http provides HTTP transport for the profesores API
package http

import (
	stdhttp "net/http"
	"strings"

	"profescore/internal/modkit/httpkit"
	perr "profescore/internal/platform/errors"
	"profescore/internal/services/api/profesores/domain"
	svc "profescore/internal/services/api/profesores/service"
)

// Register mounts profesores endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.BatchInput](r, "/ratings", h.batch)
	httpkit.Get(r, "/rating", h.single)
}

type handlers struct{ svc *svc.Service }

// swagger:route POST /profesores/ratings Profesores profesoresBatchRatings
// @Summary Resolve ratings for a roster of professor names
// @Tags Profesores
// @Accept json
// @Produce json
// @Param payload body domain.BatchInput true "Roster"
// @Success 200 {array} domain.Rating "ordered, null for unresolved names"
// @Router /profesores/ratings [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	if in.ProfessorNames == nil {
		return nil, perr.Validationf("professorNames must be an array of names")
	}
	return h.svc.ResolveBatch(r.Context(), in.ProfessorNames)
}

// swagger:route GET /profesores/rating Profesores profesoresSingleRating
// @Summary Resolve the rating for one professor name
// @Tags Profesores
// @Produce json
// @Param name query string true "Roster name"
// @Success 200 {object} domain.Rating "null when unresolved"
// @Router /profesores/rating [get]
func (h *handlers) single(r *stdhttp.Request) (any, error) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		return nil, perr.Validationf("name query parameter is required")
	}
	return h.svc.Resolve(r.Context(), name)
}

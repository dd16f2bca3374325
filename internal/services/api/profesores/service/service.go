// Package service implements professor rating resolution
//
// A roster name is split into first and surname, compiled into the listing
// pattern, and searched in the faculty listing first and the university-wide
// listing second. The first fragment in document order wins. Upstream failure
// of the faculty listing is fatal for the request; failure of the fallback
// after a healthy faculty miss degrades to faculty-only resolution
package service

import (
	"context"
	"math"
	"regexp"
	"strings"

	"profescore/internal/adapters/source"
	"profescore/internal/core/fragment"
	"profescore/internal/core/names"
	perr "profescore/internal/platform/errors"
	"profescore/internal/platform/logger"
	"profescore/internal/services/api/profesores/domain"
)

// MaxBatch caps how many names one batch request may carry
const MaxBatch = 50

const profileBaseURL = "https://www.misprofesores.com/profesores/"

// Documents serves the cached school listing bodies
type Documents interface {
	Document(ctx context.Context, key source.Key) (string, error)
}

// Service is the concrete implementation of domain.ServicePort
type Service struct {
	docs Documents
}

// New constructs a profesores service
func New(docs Documents) *Service {
	if docs == nil {
		panic("profesores.Service requires a non-nil Documents source")
	}
	return &Service{docs: docs}
}

// Resolve looks one roster name up across both listings
// Unresolvable input (blank, unsplittable) is a nil result, not an error
func (s *Service) Resolve(ctx context.Context, raw string) (*domain.Rating, error) {
	rating, _, err := s.ResolveSource(ctx, raw)
	return rating, err
}

// ResolveSource resolves like Resolve and also reports which listing answered
// the key is "" when nothing did
func (s *Service) ResolveSource(ctx context.Context, raw string) (*domain.Rating, source.Key, error) {
	first, last := names.Split(raw)
	if first == "" || last == "" {
		return nil, "", nil
	}
	re, err := fragment.BuildPattern(first, last)
	if err != nil {
		logger.C(ctx).Debug().Str("name", raw).Err(err).Msg("unresolvable roster name")
		return nil, "", nil
	}

	rating, err := s.lookup(ctx, source.KeyPrimary, raw, first, last, re)
	if err != nil {
		return nil, "", err
	}
	if rating != nil {
		return rating, source.KeyPrimary, nil
	}

	rating, err = s.lookup(ctx, source.KeyFallback, raw, first, last, re)
	if err != nil {
		// the faculty listing already answered; a broken fallback only
		// narrows coverage, it must not fail the whole lookup
		if perr.Retryable(err) {
			logger.C(ctx).Warn().Str("name", raw).Err(err).
				Msg("fallback listing unavailable, degrading to faculty-only resolution")
			return nil, "", nil
		}
		return nil, "", err
	}
	if rating != nil {
		return rating, source.KeyFallback, nil
	}
	return nil, "", nil
}

// ResolveBatch resolves names in order, one output slot per input
// Oversized batches are rejected wholesale before any document is touched
func (s *Service) ResolveBatch(ctx context.Context, roster []string) ([]*domain.Rating, error) {
	if len(roster) > MaxBatch {
		return nil, perr.Validationf(
			"too many professors in a single request: maximum %d allowed, received %d",
			MaxBatch, len(roster),
		)
	}
	out := make([]*domain.Rating, 0, len(roster))
	for _, name := range roster {
		r, err := s.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// lookup searches one listing; nil without error means no usable match there
func (s *Service) lookup(
	ctx context.Context,
	key source.Key,
	raw, first, last string,
	re *regexp.Regexp,
) (*domain.Rating, error) {
	doc, err := s.docs.Document(ctx, key)
	if err != nil {
		return nil, err
	}
	frag, ok := fragment.Locate(doc, re)
	if !ok {
		return nil, nil
	}
	out := fragment.ParseRecord(frag)
	if reason, bad := out.ParseError(); bad {
		logger.C(ctx).Warn().
			Str("name", raw).
			Str("source", string(key)).
			Str("reason", reason).
			Msg("matched fragment did not decode")
		return nil, nil
	}
	rec, found := out.Found()
	if !found {
		return nil, nil
	}
	return &domain.Rating{
		Name:         rec.FullName(),
		Rating:       math.Round(rec.Score*10) / 10,
		CommentCount: rec.Comments,
		ID:           rec.ID,
		URL:          ProfileURL(first, last, rec.ID),
	}, nil
}

// ProfileURL builds the professor's profile address from the de-accented
// hyphen-joined name tokens and the listing id
func ProfileURL(first, last, id string) string {
	tokens := append(
		strings.Fields(names.StripAccents(first)),
		strings.Fields(names.StripAccents(last))...,
	)
	return profileBaseURL + strings.Join(tokens, "-") + "_" + id
}

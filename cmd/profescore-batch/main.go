// Command profescore-batch resolves a whole roster offline
//
// It reads a professors.json produced by the roster extractor, resolves every
// name through the same two-listing path the API uses, and writes a
// ratings.json snapshot with per-name results and run statistics
package main

import (
	"context"
	"encoding/json"
	"flag"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"profescore/internal/adapters/source"
	"profescore/internal/platform/config"
	"profescore/internal/platform/logger"
	"profescore/internal/services/api/profesores/domain"
	"profescore/internal/services/api/profesores/service"
)

// rosterFile mirrors professors.json
type rosterFile struct {
	Professors  []string `json:"professors"`
	LastUpdated string   `json:"lastUpdated"`
}

// ratingsFile is the snapshot written next to the roster
type ratingsFile struct {
	LastUpdated     string                    `json:"lastUpdated"`
	TotalProfessors int                       `json:"totalProfessors"`
	RatingsFound    int                       `json:"ratingsFound"`
	FoundPercentage int                       `json:"foundPercentage"`
	Ratings         map[string]*domain.Rating `json:"ratings"`
	Statistics      statistics                `json:"statistics"`
}

type statistics struct {
	Processed             int `json:"processed"`
	Found                 int `json:"found"`
	NotFound              int `json:"notFound"`
	FoundWithFallback     int `json:"foundWithFallback"`
	FoundWithMainTemplate int `json:"foundWithMainTemplate"`
}

func main() {
	inPath := flag.String("in", "professors.json", "roster file to read")
	outPath := flag.String("out", "ratings.json", "snapshot file to write")
	flag.Parse()

	l := logger.Named("profescore-batch").With().
		Str("run_id", uuid.NewString()).Logger()

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		l.Fatal().Err(err).Str("path", *inPath).Msg("cannot read roster")
	}
	var roster rosterFile
	if err := json.Unmarshal(raw, &roster); err != nil {
		l.Fatal().Err(err).Str("path", *inPath).Msg("cannot parse roster")
	}
	l.Info().
		Int("professors", len(roster.Professors)).
		Str("roster_updated", roster.LastUpdated).
		Msg("starting roster resolution")

	root := config.New()
	// the offline run tolerates a slower upstream than the API path
	opts := append(source.FromConfig(root), source.WithTimeout(
		root.Prefix("SOURCE_").MayDuration("BATCH_TIMEOUT", 60*time.Second),
	))
	svc := service.New(source.New(opts...))

	ctx := context.Background()
	out := ratingsFile{
		Ratings: make(map[string]*domain.Rating, len(roster.Professors)),
	}

	for _, name := range roster.Professors {
		rating, key, err := svc.ResolveSource(ctx, name)
		if err != nil {
			// only a dead primary listing reaches here; nothing else in the
			// run can succeed without it
			l.Fatal().Err(err).Str("name", name).Msg("listing fetch failed")
		}
		out.Ratings[name] = rating
		out.Statistics.Processed++
		if rating != nil {
			out.Statistics.Found++
			if key == source.KeyFallback {
				out.Statistics.FoundWithFallback++
			}
		}
		if out.Statistics.Processed%100 == 0 {
			l.Info().
				Int("processed", out.Statistics.Processed).
				Int("total", len(roster.Professors)).
				Int("found", out.Statistics.Found).
				Int("via_fallback", out.Statistics.FoundWithFallback).
				Msg("progress")
		}
	}

	out.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	out.TotalProfessors = len(roster.Professors)
	out.RatingsFound = out.Statistics.Found
	if out.TotalProfessors > 0 {
		out.FoundPercentage = int(math.Round(
			float64(out.Statistics.Found) / float64(out.TotalProfessors) * 100,
		))
	}
	out.Statistics.NotFound = out.Statistics.Processed - out.Statistics.Found
	out.Statistics.FoundWithMainTemplate = out.Statistics.Found - out.Statistics.FoundWithFallback

	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		l.Fatal().Err(err).Msg("cannot encode snapshot")
	}
	if err := os.WriteFile(*outPath, buf, 0o644); err != nil {
		l.Fatal().Err(err).Str("path", *outPath).Msg("cannot write snapshot")
	}

	l.Info().
		Int("processed", out.Statistics.Processed).
		Int("found", out.Statistics.Found).
		Int("percent", out.FoundPercentage).
		Int("via_fallback", out.Statistics.FoundWithFallback).
		Str("path", *outPath).
		Msg("roster resolution complete")
}

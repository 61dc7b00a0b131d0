package official

import (
	"context"
	"net/url"

	"github.com/ralt/archpkg/internal/decode"
	"github.com/ralt/archpkg/internal/fetcher"
	"github.com/ralt/archpkg/internal/models"
	"github.com/ralt/archpkg/internal/resolver"
	"github.com/sirupsen/logrus"
)

// DefaultURL is the official repository search endpoint
const DefaultURL = "https://archlinux.org/packages/search/json/"

// Resolver implements the resolver.Resolver interface for the official
// Arch Linux repositories
type Resolver struct {
	fetcher fetcher.Fetcher
	baseURL string
	log     logrus.FieldLogger
}

// New creates a new official repository resolver
func New(f fetcher.Fetcher, baseURL string, log logrus.FieldLogger) resolver.Resolver {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{
		fetcher: f,
		baseURL: baseURL,
		log:     log,
	}
}

// Resolve runs one search request and returns the first result. Network and
// parse failures are returned as Err so the pipeline can stop instead of
// reporting an outage as a missing package.
func (r *Resolver) Resolve(ctx context.Context, q models.Query) resolver.Outcome {
	log := r.log.WithFields(logrus.Fields{
		"query": q.Name,
		"stage": models.StageOfficial,
	})

	searchURL, err := r.searchURL(q)
	if err != nil {
		return resolver.Outcome{Err: models.Annotate(err, models.ErrInvalidConfig, models.StageOfficial, q.Name)}
	}
	log.Debugf("Official search URL: %s", searchURL)

	resp, err := r.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		lerr := models.Annotate(err, models.ErrNetwork, models.StageOfficial, q.Name)
		log.WithError(lerr).Error("Official repository request failed")
		return resolver.Outcome{Err: lerr}
	}

	results, err := decode.Results(resp.Body, log)
	if err != nil {
		lerr := models.Annotate(err, models.ErrParse, models.StageOfficial, q.Name)
		log.WithError(lerr).Error("Failed to parse official repository response")
		return resolver.Outcome{Err: lerr}
	}

	if len(results) == 0 {
		log.Debug("Official search returned no results")
		return resolver.Outcome{}
	}

	pkg, err := decode.Official(results[0], log)
	if err != nil {
		lerr := models.Annotate(err, models.ErrParse, models.StageOfficial, q.Name)
		log.WithError(lerr).Error("Failed to decode official repository result")
		return resolver.Outcome{Err: lerr}
	}

	log.Debugf("Found %s in %s (%d results)", pkg.Name, pkg.Repo, len(results))
	return resolver.Outcome{Official: pkg}
}

func (r *Resolver) searchURL(q models.Query) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", err
	}
	params := u.Query()
	params.Set("name", q.Name)
	if q.Repo != "" {
		params.Set("repo", q.Repo)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// GetSource returns the package source queried by this resolver
func (r *Resolver) GetSource() resolver.Source {
	return resolver.SourceOfficial
}

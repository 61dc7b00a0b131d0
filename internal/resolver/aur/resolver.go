package aur

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ralt/archpkg/internal/decode"
	"github.com/ralt/archpkg/internal/fetcher"
	"github.com/ralt/archpkg/internal/models"
	"github.com/ralt/archpkg/internal/resolver"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultURL is the AUR RPC v5 base endpoint
const DefaultURL = "https://aur.archlinux.org/rpc/v5"

// Resolver implements the resolver.Resolver interface for the AUR
type Resolver struct {
	fetcher       fetcher.Fetcher
	baseURL       string
	maxConcurrent int
	log           logrus.FieldLogger
}

// Option configures a Resolver during construction
type Option func(*Resolver)

// WithMaxConcurrent caps how many info requests run at once. Zero means no
// cap. Every candidate is still fetched.
func WithMaxConcurrent(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxConcurrent = n
		}
	}
}

// New creates a new AUR resolver
func New(f fetcher.Fetcher, baseURL string, log logrus.FieldLogger, opts ...Option) resolver.Resolver {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Resolver{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks the query name up in the AUR. The official repo filter does
// not apply here. All failures in this source are non-fatal and end in a
// miss.
func (r *Resolver) Resolve(ctx context.Context, q models.Query) resolver.Outcome {
	log := r.log.WithField("query", q.Name)

	suggestions := r.suggest(ctx, q.Name, log)
	candidates := Candidates(q.Name, suggestions)
	if len(candidates) > 1 {
		log.Infof("Found %d AUR suggestions, fetching info for all", len(candidates))
	} else {
		log.Debugf("Fetching AUR info for %s", candidates[0])
	}

	best := selectBest(r.fetchAll(ctx, candidates, log))
	if best == nil {
		log.Info("No AUR package could be resolved")
		return resolver.Outcome{}
	}

	log.Debugf("Selected AUR package %s (%.0f votes)", best.Name, best.NumVotes)
	return resolver.Outcome{Community: best}
}

// GetSource returns the package source queried by this resolver
func (r *Resolver) GetSource() resolver.Source {
	return resolver.SourceAUR
}

// suggest returns the AUR suggestions for name. Failures yield none.
func (r *Resolver) suggest(ctx context.Context, name string, log logrus.FieldLogger) []string {
	log = log.WithField("stage", models.StageAURSuggest)

	suggestURL := fmt.Sprintf("%s/suggest/%s", r.baseURL, url.PathEscape(name))
	log.Debugf("AUR suggest URL: %s", suggestURL)

	resp, err := r.fetcher.Fetch(ctx, suggestURL)
	if err != nil {
		log.WithError(models.Annotate(err, models.ErrNetwork, models.StageAURSuggest, name)).
			Warn("Failed to fetch AUR suggestions")
		return nil
	}

	suggestions, err := decode.Suggestions(resp.Body, log)
	if err != nil {
		log.WithError(models.Annotate(err, models.ErrParse, models.StageAURSuggest, name)).
			Warn("Failed to parse AUR suggestions")
		return nil
	}
	return suggestions
}

// Candidates returns the names to fetch info for. With no suggestions the
// query name itself is looked up directly. A single suggestion, or a first
// suggestion that matches the name exactly, narrows the set to that one
// name.
func Candidates(name string, suggestions []string) []string {
	switch {
	case len(suggestions) == 0:
		return []string{name}
	case len(suggestions) == 1 || suggestions[0] == name:
		return []string{suggestions[0]}
	default:
		return suggestions
	}
}

// candidateResult is the outcome of one info request. pkg is nil on
// failure or when the AUR returned no results.
type candidateResult struct {
	name string
	pkg  *models.AURPackage
	err  *models.LookupError
}

// fetchAll issues one info request per candidate concurrently and waits for
// all of them. A failing candidate never cancels its siblings; each writes
// only its own slot.
func (r *Resolver) fetchAll(ctx context.Context, candidates []string, log logrus.FieldLogger) []candidateResult {
	results := make([]candidateResult, len(candidates))

	var g errgroup.Group
	if r.maxConcurrent > 0 {
		g.SetLimit(r.maxConcurrent)
	}

	for i, name := range candidates {
		g.Go(func() error {
			results[i] = r.info(ctx, name, log)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	return results
}

// info fetches and decodes the first info result for name
func (r *Resolver) info(ctx context.Context, name string, log logrus.FieldLogger) candidateResult {
	log = log.WithFields(logrus.Fields{
		"stage":     models.StageAURInfo,
		"candidate": name,
	})
	res := candidateResult{name: name}

	infoURL := fmt.Sprintf("%s/info/%s", r.baseURL, url.PathEscape(name))
	log.Debugf("AUR info URL: %s", infoURL)

	resp, err := r.fetcher.Fetch(ctx, infoURL)
	if err != nil {
		res.err = models.Annotate(err, models.ErrNetwork, models.StageAURInfo, name)
		log.WithError(res.err).Warn("AUR info request failed")
		return res
	}

	items, err := decode.Results(resp.Body, log)
	if err != nil {
		res.err = models.Annotate(err, models.ErrParse, models.StageAURInfo, name)
		log.WithError(res.err).Warn("Failed to parse AUR info response")
		return res
	}
	if len(items) == 0 {
		log.Info("AUR info returned no results")
		return res
	}

	pkg, err := decode.AUR(items[0], log)
	if err != nil {
		res.err = models.Annotate(err, models.ErrParse, models.StageAURInfo, name)
		log.WithError(res.err).Warn("Failed to decode AUR info result")
		return res
	}
	res.pkg = pkg
	return res
}

// selectBest returns the package with the strictly highest vote count.
// Ties keep the earliest candidate in suggestion order.
func selectBest(results []candidateResult) *models.AURPackage {
	var best *models.AURPackage
	maxVotes := -1.0
	for _, res := range results {
		if res.pkg == nil {
			continue
		}
		if res.pkg.NumVotes > maxVotes {
			maxVotes = res.pkg.NumVotes
			best = res.pkg
		}
	}
	return best
}

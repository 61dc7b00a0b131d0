// Package pipeline resolves a query against the official repositories and
// falls back to the AUR on a miss.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/ralt/archpkg/internal/models"
	"github.com/ralt/archpkg/internal/resolver"
	"github.com/sirupsen/logrus"
)

// Pipeline composes a primary and a fallback resolver
type Pipeline struct {
	primary  resolver.Resolver
	fallback resolver.Resolver
	log      logrus.FieldLogger
}

// New creates a pipeline. primary is the official repository resolver and
// fallback the AUR resolver.
func New(primary, fallback resolver.Resolver, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Run resolves q to exactly one result:
//
//	official hit            -> ResultOfficial
//	official failure        -> ResultFailed (AUR is not contacted)
//	official miss, AUR hit  -> ResultCommunity
//	official miss, AUR miss -> ResultNotFound
func (p *Pipeline) Run(ctx context.Context, q models.Query) models.Result {
	log := p.log.WithFields(logrus.Fields{
		"run":   uuid.New().String()[:8],
		"query": q.Name,
	})

	out := p.primary.Resolve(ctx, q)
	switch {
	case out.Err != nil:
		log.WithError(out.Err).Debugf("Lookup aborted: %s source failed", p.primary.GetSource())
		return models.FailedResult(out.Err)
	case out.Official != nil:
		return models.OfficialResult(out.Official)
	case out.Community != nil:
		return models.CommunityResult(out.Community)
	}

	if q.Repo != "" {
		log.Infof("Package not found in official repository %s, checking %s", q.Repo, p.fallback.GetSource())
	} else {
		log.Infof("Package not found in official repositories, checking %s", p.fallback.GetSource())
	}

	out = p.fallback.Resolve(ctx, q)
	switch {
	case out.Community != nil:
		return models.CommunityResult(out.Community)
	case out.Official != nil:
		return models.OfficialResult(out.Official)
	case out.Err != nil:
		log.WithError(out.Err).Warnf("%s lookup failed", p.fallback.GetSource())
	}

	return models.NotFoundResult()
}

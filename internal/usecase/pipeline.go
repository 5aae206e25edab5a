package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"PodcastPoster/internal/compose"
	"PodcastPoster/internal/domain"
	"PodcastPoster/internal/ports"
	"PodcastPoster/internal/resolve"
)

// neverFreshMinutes stands in for "infinitely old" when an entry carries no
// timestamp, so such entries are never held back by the freshness gate.
const neverFreshMinutes = 1e9

// Options carries the run-wide tunables of the pipeline.
type Options struct {
	CheckItems   int
	FreshWaitMin int
	TitleMaxLen  int
	Limit        int
	URLWidth     int
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.EntrySource
	Resolver  *resolve.Selector
	State     ports.StateRepository
	Publisher ports.Publisher
	Feeds     []domain.FeedConfig
	Options   Options
	Logger    *slog.Logger
}

// Pipeline implements one publication run: gate, dedup, resolve, compose,
// pool candidates across all feeds, publish the newest, commit state.
type Pipeline struct {
	source    ports.EntrySource
	resolver  *resolve.Selector
	state     ports.StateRepository
	publisher ports.Publisher
	feeds     []domain.FeedConfig
	opts      Options
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:    deps.Source,
		resolver:  deps.Resolver,
		state:     deps.State,
		publisher: deps.Publisher,
		feeds:     deps.Feeds,
		opts:      deps.Options,
		logger:    deps.Logger,
	}
}

// Run executes one pass over every configured feed, publishes at most one
// post (the globally newest candidate) and commits its uid only after the
// platform confirmed acceptance. Per-entry and per-feed failures are
// absorbed into log lines; only wiring-level failures return an error.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	if p.source == nil || p.resolver == nil || p.publisher == nil || p.state == nil {
		return fmt.Errorf("pipeline is not fully wired")
	}

	if err := p.state.Load(ctx); err != nil {
		return fmt.Errorf("load publication state: %w", err)
	}

	var candidates []domain.PostCandidate
	for _, feed := range p.feeds {
		candidates = append(candidates, p.collect(ctx, feed, now)...)
	}

	if len(candidates) == 0 {
		p.info("no eligible candidates this run")
		return nil
	}

	chosen := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Timestamp > chosen.Timestamp {
			chosen = cand
		}
	}

	p.info("publishing", "title", chosen.Title)
	id, err := p.publisher.Publish(ctx, chosen.Text)
	if err != nil {
		// Not recording the uid means the same entry is retried next run.
		p.warn("post failed, will retry next run", "title", chosen.Title, "error", err)
		return nil
	}

	if err := p.state.Commit(ctx, chosen.UID, now.Unix()); err != nil {
		return fmt.Errorf("commit publication state: %w", err)
	}

	p.info("posted", "title", chosen.Title, "post_id", id)
	return nil
}

// collect walks one feed's entries through the freshness gate, the dedup
// tracker, the link selector and the composer.
func (p *Pipeline) collect(ctx context.Context, feed domain.FeedConfig, now time.Time) []domain.PostCandidate {
	if feed.URL == "" || feed.Template == "" {
		p.warn("feed misconfigured, url and template are required", "url", feed.URL)
		return nil
	}

	entries, err := p.source.Fetch(ctx, feed.URL, p.opts.CheckItems)
	if err != nil {
		p.warn("feed fetch failed", "url", feed.URL, "error", err)
		return nil
	}

	threshold := feed.FreshWaitMin
	if threshold <= 0 {
		threshold = p.opts.FreshWaitMin
	}

	var collected []domain.PostCandidate
	for _, entry := range entries {
		if entry.IdentitySource() == "" {
			p.info("entry has no identity fields, skipped", "feed", feed.URL)
			continue
		}

		uid := domain.EntryUID(feed.URL, entry)
		if p.state.Contains(uid) {
			continue
		}

		if age := minutesSince(entry, now); age < float64(threshold) {
			p.info("entry too fresh, deferred", "title", entry.Title, "age_min", int(age))
			continue
		}

		link, ok := p.resolver.Best(ctx, entry, feed)
		if !ok {
			p.info("no playable link yet, will retry later", "title", entry.Title)
			continue
		}

		title := compose.ShortenTitle(entry.Title, p.opts.TitleMaxLen)
		text := compose.Fit(feed.Template, title, feed.ProgramName, link.URL, p.opts.Limit, p.opts.URLWidth)

		collected = append(collected, domain.PostCandidate{
			UID:       uid,
			Timestamp: entry.Timestamp(),
			Text:      text,
			Title:     title,
		})
	}

	return collected
}

// minutesSince returns the entry age in minutes, or an effectively infinite
// age when the entry has no publication timestamp.
func minutesSince(entry domain.FeedEntry, now time.Time) float64 {
	if entry.PublishedAt == nil {
		return neverFreshMinutes
	}
	return now.Sub(*entry.PublishedAt).Minutes()
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

// Package site generates the static HTML output of the blog.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/rss"
	"spacetraveling/cmd/internal/views"
	"spacetraveling/config"
	"spacetraveling/detail"
	"spacetraveling/listing"
	"spacetraveling/models"
)

// Source is everything the builder reads from the content API.
type Source interface {
	listing.Source
	detail.PostGetter
	UIDs(ctx context.Context, documentType string) ([]string, error)
}

type Options struct {
	OutputDir    string
	DocumentType string
	PageSize     int
	SiteTitle    string
	BaseURL      string
	Concurrency  int
}

func OptionsFromConfig(cfg config.AppConfig) Options {
	return Options{
		OutputDir:    cfg.Site.OutputDir,
		DocumentType: cfg.Content.DocumentType,
		PageSize:     cfg.Listing.PageSize,
		SiteTitle:    cfg.Site.Title,
		BaseURL:      cfg.Site.BaseURL,
		Concurrency:  cfg.Site.BuildConcurrency,
	}
}

// Report summarizes one build.
type Report struct {
	Posts    int
	Skipped  int
	Duration time.Duration
}

type Builder struct {
	src      Source
	renderer *views.Renderer
	resolver *detail.Resolver
	opts     Options
}

func NewBuilder(src Source, renderer *views.Renderer, opts Options) *Builder {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Builder{
		src:      src,
		renderer: renderer,
		resolver: detail.NewResolver(src, opts.DocumentType),
		opts:     opts,
	}
}

// Build writes index.html, feed.xml and post/<uid>/index.html for every post.
//
// 포스트가 조회 시점에 사라졌으면(not found) 건너뛰고, 그 외 에러는 빌드 전체를 실패시킨다.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	start := time.Now()

	feed, err := listing.Load(ctx, b.src, b.opts.DocumentType, b.opts.PageSize)
	if err != nil {
		return Report{}, err
	}
	snap := feed.Snapshot()

	var index bytes.Buffer
	if err := b.renderer.Listing(&index, views.NewListingPage(b.opts.SiteTitle, snap, "/?pages=2")); err != nil {
		return Report{}, fmt.Errorf("render index: %w", err)
	}
	if err := b.write("index.html", index.Bytes()); err != nil {
		return Report{}, err
	}

	feedXML, err := rss.Build(rss.Options{Title: b.opts.SiteTitle, BaseURL: b.opts.BaseURL}, snap.Posts)
	if err != nil {
		return Report{}, fmt.Errorf("render feed: %w", err)
	}
	if err := b.write("feed.xml", []byte(feedXML)); err != nil {
		return Report{}, err
	}

	uids, err := b.src.UIDs(ctx, b.opts.DocumentType)
	if err != nil {
		return Report{}, fmt.Errorf("collect post paths: %w", err)
	}

	var written, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for _, uid := range uids {
		uid := uid
		g.Go(func() error {
			ok, err := b.buildPost(gctx, uid)
			if err != nil {
				return err
			}
			if ok {
				written.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Posts:    int(written.Load()),
		Skipped:  int(skipped.Load()),
		Duration: time.Since(start),
	}
	logger.InfoWithFields("site build completed", logger.Fields{
		"output_dir": b.opts.OutputDir,
		"posts":      report.Posts,
		"skipped":    report.Skipped,
		"duration":   report.Duration.String(),
	})
	return report, nil
}

func (b *Builder) buildPost(ctx context.Context, uid string) (bool, error) {
	view, err := b.resolver.Resolve(ctx, uid, "")
	if errors.Is(err, models.ErrNotFound) {
		logger.WarnWithFields("skip missing post", logger.Fields{"uid": uid})
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("build post %s: %w", uid, err)
	}

	var buf bytes.Buffer
	if err := b.renderer.Post(&buf, views.PostPage{SiteTitle: b.opts.SiteTitle, View: view}); err != nil {
		return false, fmt.Errorf("render post %s: %w", uid, err)
	}
	if err := b.write(PostPath(uid), buf.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}

// PostPath is the output path of a post page relative to the output dir.
func PostPath(uid string) string {
	return filepath.Join("post", filepath.Base(uid), "index.html")
}

// write replaces rel atomically so a concurrent reader never sees a partial page.
func (b *Builder) write(rel string, data []byte) error {
	path := filepath.Join(b.opts.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", rel, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", rel, err)
	}
	return nil
}

package scraper

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/browser"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/logger"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/metrics"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

const (
	kindPlace   = "place"
	kindProfile = "profile"
)

// PlaceOptions 地点评论抓取参数
type PlaceOptions struct {
	URL         string
	Sort        model.SortOrder
	FullContent bool
	// ScrollTimes 为 nil 时使用配置中的默认次数
	ScrollTimes *int
}

// Scraper 每次抓取独占一个浏览器，步骤严格串行
type Scraper struct {
	launcher browser.Launcher
	nav      *Navigator
	cfg      config.ScrapeConfig
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

func New(launcher browser.Launcher, cfg config.ScrapeConfig, client *http.Client, m *metrics.Metrics, log logrus.FieldLogger) *Scraper {
	return &Scraper{
		launcher: launcher,
		nav:      NewNavigator(cfg, client),
		cfg:      cfg,
		metrics:  m,
		log:      logger.Or(log),
	}
}

// step 执行一个步骤并记录耗时
func (s *Scraper) step(kind, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveStep(kind, name, start, err)
	entry := s.log.WithFields(logrus.Fields{"kind": kind, "step": name, "cost": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Warn("scrape step failed")
	} else {
		entry.Debug("scrape step done")
	}
	return err
}

// open 启动浏览器并打开页面，返回的 Browser 由调用方负责关闭
func (s *Scraper) open(ctx context.Context, kind, target string) (browser.Browser, browser.Page, error) {
	var b browser.Browser
	err := s.step(kind, "launch", func() (err error) {
		b, err = s.launcher.Launch(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var page browser.Page
	err = s.step(kind, "new_page", func() (err error) {
		page, err = b.NewPage(ctx)
		return err
	})
	if err != nil {
		return b, nil, err
	}

	err = s.step(kind, "navigate", func() error {
		return s.nav.Open(ctx, page, target)
	})
	return b, page, err
}

// release 先关标签页再关浏览器，两者都可能为空
func (s *Scraper) release(b browser.Browser, page browser.Page) {
	if page != nil {
		if err := page.Close(); err != nil {
			s.log.WithError(err).Warn("close page failed")
		}
	}
	if b == nil {
		return
	}
	if err := b.Close(); err != nil {
		s.log.WithError(err).Warn("close browser failed")
	}
}

// ScrapePlace 抓取地点评论
func (s *Scraper) ScrapePlace(ctx context.Context, opts PlaceOptions) (*model.PlaceResult, error) {
	var canonical string
	err := s.step(kindPlace, "resolve", func() (err error) {
		canonical, err = s.nav.ResolveShortURL(ctx, opts.URL)
		return err
	})
	if err != nil {
		return nil, err
	}

	b, page, err := s.open(ctx, kindPlace, canonical)
	defer s.release(b, page)
	if err != nil {
		return nil, err
	}

	loc, err := page.Location(ctx)
	if err != nil {
		loc = canonical
	}
	placeName, err := PlaceName(loc)
	if err != nil {
		return nil, err
	}

	panel := NewPanel(page, s.cfg, s.log.WithField("place", placeName))
	if err := s.step(kindPlace, "reviews_tab", func() error { return panel.OpenReviewsTab(ctx) }); err != nil {
		return nil, err
	}
	if err := s.step(kindPlace, "sort", func() error { return panel.ApplySort(ctx, opts.Sort) }); err != nil {
		return nil, err
	}

	result := &model.PlaceResult{PlaceName: placeName}
	err = s.step(kindPlace, "summary", func() (err error) {
		result.TotalRating, result.TotalReviewCount, err = panel.Summary(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.step(kindPlace, "wait_reviews", func() error { return panel.WaitForReviews(ctx) }); err != nil {
		return nil, err
	}

	scrolls := s.cfg.PlaceScrolls
	if opts.ScrollTimes != nil {
		scrolls = *opts.ScrollTimes
	}
	if err := s.step(kindPlace, "scroll", func() error { return panel.Scroll(ctx, PlaceContainer, scrolls) }); err != nil {
		return nil, err
	}
	if opts.FullContent {
		if err := s.step(kindPlace, "expand", func() error { return panel.ExpandContent(ctx) }); err != nil {
			return nil, err
		}
	}

	err = s.step(kindPlace, "extract", func() (err error) {
		result.Reviews, err = ExtractPlace(ctx, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"place": placeName, "reviews": len(result.Reviews), "state": panel.State()}).Info("place reviews scraped")
	return result, nil
}

// ScrapeProfile 抓取个人主页上的评论
func (s *Scraper) ScrapeProfile(ctx context.Context, profileURL string) (*model.ProfileResult, error) {
	if profileURL == "" {
		return nil, model.Wrap(model.ErrInvalidURL, "Missing Google Maps profile URL", nil)
	}

	b, page, err := s.open(ctx, kindProfile, profileURL)
	defer s.release(b, page)
	if err != nil {
		return nil, err
	}

	result := &model.ProfileResult{}
	loc, err := page.Location(ctx)
	if err != nil {
		loc = profileURL
	}
	if id, err := ProfileID(loc); err == nil {
		result.ProfileID = id
	} else {
		s.log.WithField("url", loc).Warn("profile id not found in url, profileId left empty")
	}

	panel := NewPanel(page, s.cfg, s.log.WithField("profile", result.ProfileID))
	if err := s.step(kindProfile, "scroll", func() error { return panel.Scroll(ctx, ProfileContainer, s.cfg.ProfileScrolls) }); err != nil {
		return nil, err
	}
	if err := s.step(kindProfile, "expand", func() error { return panel.ExpandContent(ctx) }); err != nil {
		return nil, err
	}

	err = s.step(kindProfile, "extract", func() (err error) {
		result.Reviews, err = ExtractPersonal(ctx, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"profile": result.ProfileID, "reviews": len(result.Reviews)}).Info("personal reviews scraped")
	return result, nil
}

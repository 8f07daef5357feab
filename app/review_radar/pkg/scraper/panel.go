package scraper

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/browser"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/logger"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// State 评论面板所处的阶段
type State int

const (
	StateLoaded State = iota
	StateReviewsTabOpen
	StateSortMenuOpen
	StateSortApplied
	StateScrollExhausted
	StateContentExpanded
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateReviewsTabOpen:
		return "reviews_tab_open"
	case StateSortMenuOpen:
		return "sort_menu_open"
	case StateSortApplied:
		return "sort_applied"
	case StateScrollExhausted:
		return "scroll_exhausted"
	case StateContentExpanded:
		return "content_expanded"
	}
	return "unknown"
}

// Panel 驱动评论面板：打开 tab、排序、滚动加载、展开全文
type Panel struct {
	page  browser.Page
	cfg   config.ScrapeConfig
	log   logrus.FieldLogger
	state State
}

func NewPanel(page browser.Page, cfg config.ScrapeConfig, log logrus.FieldLogger) *Panel {
	return &Panel{page: page, cfg: cfg, log: logger.Or(log), state: StateLoaded}
}

// State 当前阶段
func (p *Panel) State() State { return p.state }

// OpenReviewsTab 点击“評論”tab
func (p *Panel) OpenReviewsTab(ctx context.Context) error {
	if err := p.waitFor(ctx, reviewsTabSelector, p.cfg.TabTimeout.Std()); err != nil {
		return stepError(model.ErrControlNotFound, "Reviews button not found", err)
	}
	if err := sleep(ctx, p.cfg.TabSettle.Std()); err != nil {
		return err
	}
	if err := p.click(ctx, reviewsTabSelector); err != nil {
		return stepError(model.ErrControlNotFound, "Reviews button not found", err)
	}
	p.state = StateReviewsTabOpen
	return nil
}

// ApplySort 通过排序菜单切换排序，relevant 为页面默认，不做任何操作。
// 找不到对应菜单项时只记 warn，保持 SortMenuOpen，评论按页面原有顺序返回
func (p *Panel) ApplySort(ctx context.Context, order model.SortOrder) error {
	labels, ok := sortLabels[order]
	if !ok {
		return nil
	}

	if err := p.waitFor(ctx, sortButtonSelector, p.cfg.SortTimeout.Std()); err != nil {
		return stepError(model.ErrControlNotFound, "Sort button not found", err)
	}
	var found bool
	if err := p.page.Evaluate(ctx, scrollIntoViewScript(sortButtonSelector), &found); err != nil {
		return stepError(model.ErrControlNotFound, "Sort button not found", err)
	}
	if err := sleep(ctx, p.cfg.SortSettle.Std()); err != nil {
		return err
	}
	if err := p.click(ctx, sortButtonSelector); err != nil {
		return stepError(model.ErrControlNotFound, "Sort button not found", err)
	}

	if err := p.waitFor(ctx, sortMenuSelector, p.cfg.SortTimeout.Std()); err != nil {
		return stepError(model.ErrControlNotFound, "Sort menu not found", err)
	}
	p.state = StateSortMenuOpen

	var clicked bool
	if err := p.page.Evaluate(ctx, sortItemScript(labels[0], labels[1]), &clicked); err != nil {
		return stepError(model.ErrControlNotFound, "Sort menu item not found", err)
	}
	if !clicked {
		p.log.WithField("sort", order).Warn("sort menu item not found, keeping page order")
		return nil
	}
	p.state = StateSortApplied
	return nil
}

// Summary 地点的总评分和评论数，缺失时为 "No rating" 和 "0"
func (p *Panel) Summary(ctx context.Context) (rating, count string, err error) {
	var out struct {
		TotalRating      string `json:"totalRating"`
		TotalReviewCount string `json:"totalReviewCount"`
	}
	if err := p.page.Evaluate(ctx, summaryScript(), &out); err != nil {
		return "", "", stepError(model.ErrTimeout, "summary not available", err)
	}
	return out.TotalRating, out.TotalReviewCount, nil
}

// WaitForReviews 等待至少一条评论出现
func (p *Panel) WaitForReviews(ctx context.Context) error {
	if err := p.waitFor(ctx, reviewSelector, p.cfg.ReviewsTimeout.Std()); err != nil {
		return stepError(model.ErrTimeout, "reviews did not show up", err)
	}
	return nil
}

// Scroll 将容器滚到底 n 次，每次之间停顿以等待懒加载，n <= 0 时不滚动
func (p *Panel) Scroll(ctx context.Context, c Container, n int) error {
	for i := 0; i < n; i++ {
		var ok bool
		if err := p.page.Evaluate(ctx, scrollScript(c), &ok); err != nil {
			return stepError(model.ErrTimeout, "scroll failed", err)
		}
		if !ok {
			p.log.Debug("scroll container not found")
			break
		}
		if err := sleep(ctx, p.cfg.ScrollPause.Std()); err != nil {
			return err
		}
	}
	p.state = StateScrollExhausted
	return nil
}

// ExpandContent 点开所有“顯示更多”按钮
func (p *Panel) ExpandContent(ctx context.Context) error {
	if err := sleep(ctx, p.cfg.ExpandSettle.Std()); err != nil {
		return err
	}
	var n int
	if err := p.page.Evaluate(ctx, clickAllScript(seeMoreSelector), &n); err != nil {
		return stepError(model.ErrTimeout, "expand content failed", err)
	}
	p.log.WithField("buttons", n).Debug("expanded review content")
	if err := sleep(ctx, p.cfg.ExpandSettle.Std()); err != nil {
		return err
	}
	p.state = StateContentExpanded
	return nil
}

func (p *Panel) waitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.page.WaitFor(ctx, selector)
}

func (p *Panel) click(ctx context.Context, selector string) error {
	var ok bool
	if err := p.page.Evaluate(ctx, clickScript(selector), &ok); err != nil {
		return err
	}
	if !ok {
		return errors.New(500, model.ReasonControlNotFound, "element disappeared: "+selector)
	}
	return nil
}

// stepError 调用方取消时原样返回，其余统一包装为 base
func stepError(base *errors.Error, message string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return model.Wrap(base, message, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package scraper

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/browser"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
)

// fakePage 按脚本内容返回预设结果
type fakePage struct {
	mu          sync.Mutex
	location    string
	html        string
	htmlErr     error
	navigateErr error
	// missing 中的选择器等待时超时
	missing       map[string]bool
	noSortItem    bool
	noContainer   bool
	summary       string
	summaryErr    error
	scrollErr     error
	closes        int
	navigated     []string
	waited        []string
	scrolls       int
	expandClicked bool
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = append(p.navigated, url)
	return p.navigateErr
}

func (p *fakePage) Location(context.Context) (string, error) {
	return p.location, nil
}

func (p *fakePage) WaitFor(_ context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waited = append(p.waited, selector)
	if p.missing[selector] {
		return context.DeadlineExceeded
	}
	return nil
}

func (p *fakePage) Evaluate(_ context.Context, script string, out interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result string
	switch {
	case strings.Contains(script, "menuitemradio"):
		result = boolJSON(!p.noSortItem)
	case strings.Contains(script, "totalRating"):
		if p.summaryErr != nil {
			return p.summaryErr
		}
		result = p.summary
		if result == "" {
			result = `{"totalRating":"No rating","totalReviewCount":"0"}`
		}
	case strings.Contains(script, "scrollTo"):
		if p.scrollErr != nil {
			return p.scrollErr
		}
		if !p.noContainer {
			p.scrolls++
		}
		result = boolJSON(!p.noContainer)
	case strings.Contains(script, "querySelectorAll"):
		p.expandClicked = true
		result = "3"
	default:
		result = "true"
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(result), out)
}

func (p *fakePage) HTML(context.Context, string) (string, error) {
	return p.html, p.htmlErr
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

type fakeBrowser struct {
	page    *fakePage
	pageErr error
	closes  int
}

func (b *fakeBrowser) NewPage(context.Context) (browser.Page, error) {
	if b.pageErr != nil {
		return nil, b.pageErr
	}
	return b.page, nil
}

func (b *fakeBrowser) Close() error {
	b.closes++
	return nil
}

type fakeLauncher struct {
	browser *fakeBrowser
	err     error
}

func (l *fakeLauncher) Launch(context.Context) (browser.Browser, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.browser, nil
}

// fastConfig 去掉所有等待，测试中不真正 sleep
func fastConfig() config.ScrapeConfig {
	cfg := config.Default().Scrape
	cfg.TabSettle = 0
	cfg.SortSettle = 0
	cfg.ScrollPause = 0
	cfg.ExpandSettle = 0
	return cfg
}

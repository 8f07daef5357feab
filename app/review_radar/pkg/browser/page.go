package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Page 抓取流程所需的最小页面能力，测试中用假实现替换
type Page interface {
	// Navigate 打开 url，DOMContentLoaded 触发即返回
	Navigate(ctx context.Context, url string) error
	// Location 当前页面地址
	Location(ctx context.Context) (string, error)
	// WaitFor 等待选择器命中的元素就绪
	WaitFor(ctx context.Context, selector string) error
	// Evaluate 在页面中执行脚本，结果解码到 out
	Evaluate(ctx context.Context, script string, out interface{}) error
	// HTML 选择器命中的第一个元素的 outerHTML
	HTML(ctx context.Context, selector string) (string, error)
	Close() error
}

// NavigationError 页面自身报告的导航失败，例如 net::ERR_NAME_NOT_RESOLVED
type NavigationError struct {
	URL  string
	Text string
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %s", e.URL, e.Text)
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// scoped 将调用方的截止时间套到标签页上下文上
func (p *chromePage) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := ctx.Deadline(); ok {
		return context.WithDeadline(p.ctx, dl)
	}
	return context.WithCancel(p.ctx)
}

func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	c, cancel := p.scoped(ctx)
	defer cancel()
	return chromedp.Run(c, actions...)
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	c, cancel := p.scoped(ctx)
	defer cancel()

	loaded := make(chan struct{}, 1)
	chromedp.ListenTarget(c, func(ev interface{}) {
		if _, ok := ev.(*page.EventDomContentEventFired); ok {
			select {
			case loaded <- struct{}{}:
			default:
			}
		}
	})

	err := chromedp.Run(c, chromedp.ActionFunc(func(ctx context.Context) error {
		var res page.NavigateReturns
		if err := cdp.Execute(ctx, page.CommandNavigate, page.Navigate(url), &res); err != nil {
			return err
		}
		if res.ErrorText != "" {
			return &NavigationError{URL: url, Text: res.ErrorText}
		}
		return nil
	}))
	if err != nil {
		return err
	}

	select {
	case <-loaded:
		return nil
	case <-c.Done():
		return c.Err()
	}
}

func (p *chromePage) Location(ctx context.Context) (string, error) {
	var u string
	err := p.run(ctx, chromedp.Location(&u))
	return u, err
}

func (p *chromePage) WaitFor(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (p *chromePage) Evaluate(ctx context.Context, script string, out interface{}) error {
	return p.run(ctx, chromedp.Evaluate(script, out))
}

func (p *chromePage) HTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	return html, err
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}

package browser

import (
	"context"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// ShouldBlock 只需要 DOM 文本和属性，图片、样式、字体、媒体一律拦截
func ShouldBlock(t network.ResourceType) bool {
	switch t {
	case network.ResourceTypeImage,
		network.ResourceTypeStylesheet,
		network.ResourceTypeFont,
		network.ResourceTypeMedia:
		return true
	}
	return false
}

// enableRequestFilter 通过 Fetch 域暂停每个请求，再按资源类型放行或拦截
func enableRequestFilter(ctx context.Context, log logrus.FieldLogger) error {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		// 事件回调中不能同步发命令
		go func() {
			c := chromedp.FromContext(ctx)
			if c == nil || c.Target == nil {
				return
			}
			ectx := cdp.WithExecutor(ctx, c.Target)
			var err error
			if ShouldBlock(e.ResourceType) {
				err = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
			} else {
				err = fetch.ContinueRequest(e.RequestID).Do(ectx)
			}
			if err != nil && ctx.Err() == nil {
				log.Debugf("request filter %s %s: %v", e.ResourceType, e.Request.URL, err)
			}
		}()
	})
	return chromedp.Run(ctx, fetch.Enable())
}

package browser

import (
	"context"
	"os"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/logger"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// Browser 一次抓取独占的浏览器实例
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	// Close 可重复调用，只有第一次生效
	Close() error
}

// Launcher 按需启动浏览器
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// ChromeLauncher 基于 chromedp 的启动器
type ChromeLauncher struct {
	opts LaunchOptions
	log  logrus.FieldLogger
}

func NewChromeLauncher(opts LaunchOptions, log logrus.FieldLogger) *ChromeLauncher {
	return &ChromeLauncher{opts: opts, log: logger.Or(log)}
}

func (l *ChromeLauncher) allocator() (context.Context, context.CancelFunc) {
	if l.opts.Host == HostRemote {
		return chromedp.NewRemoteAllocator(context.Background(), l.opts.CDPURL)
	}
	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(l.opts.ExecPath),
		chromedp.Flag("headless", l.opts.Headless),
	}
	for _, f := range l.opts.Flags {
		execOpts = append(execOpts, chromedp.Flag(f.Name, f.Value))
	}
	if l.opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(l.opts.UserAgent))
	}
	return chromedp.NewExecAllocator(context.Background(), execOpts...)
}

// Launch 启动浏览器进程或连接远程端点
func (l *ChromeLauncher) Launch(ctx context.Context) (Browser, error) {
	if l.opts.Host != HostRemote {
		if _, err := os.Stat(l.opts.ExecPath); err != nil {
			return nil, model.Wrap(model.ErrBrowserLaunch, "browser executable not found: "+l.opts.ExecPath, err)
		}
	}

	allocCtx, allocCancel := l.allocator()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()
	select {
	case err := <-started:
		if err != nil {
			browserCancel()
			allocCancel()
			return nil, model.Wrap(model.ErrBrowserLaunch, "failed to launch browser", err)
		}
	case <-ctx.Done():
		browserCancel()
		allocCancel()
		return nil, model.Wrap(model.ErrBrowserLaunch, "failed to launch browser", ctx.Err())
	}

	l.log.WithField("host", l.opts.Host).Debug("browser started")
	return &Session{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		log:         l.log,
	}, nil
}

// Session 已启动的浏览器
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	log         logrus.FieldLogger
	closeOnce   sync.Once
}

// NewPage 打开新标签页并启用资源拦截
func (s *Session) NewPage(ctx context.Context) (Page, error) {
	tabCtx, cancel := chromedp.NewContext(s.ctx)
	if err := enableRequestFilter(tabCtx, s.log); err != nil {
		cancel()
		return nil, model.Wrap(model.ErrBrowserLaunch, "failed to open page", err)
	}
	return &chromePage{ctx: tabCtx, cancel: cancel}, nil
}

func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
		s.log.Debug("browser closed")
	})
	return nil
}

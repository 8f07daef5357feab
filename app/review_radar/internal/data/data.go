package data

import (
	"context"
	"net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/analysis"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/browser"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/generation"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/llm/factory"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/metrics"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/scraper"
)

// Data 持有抓取器和 LLM 适配器，进程内共享，单次请求的状态不放在这里
type Data struct {
	scraper   *scraper.Scraper
	analyzer  *analysis.Analyzer
	generator *generation.Generator
}

// NewData 根据配置组装浏览器启动器与 LLM 客户端
func NewData(cfg *config.Config, lg *logrus.Logger, logger log.Logger) (*Data, func(), error) {
	opts, err := browser.ResolveLaunchOptions(cfg.Browser, "")
	if err != nil {
		return nil, nil, err
	}
	m := metrics.Default()
	launcher := browser.NewChromeLauncher(opts, lg)

	clients, err := factory.NewClients(context.Background(), cfg, m, lg)
	if err != nil {
		return nil, nil, err
	}

	d := &Data{
		scraper:   scraper.New(launcher, cfg.Scrape, &http.Client{}, m, lg),
		analyzer:  analysis.NewAnalyzer(clients, lg),
		generator: generation.NewGenerator(clients, lg),
	}
	log.NewHelper(logger).Infof("browser host: %s, llm providers: %d", opts.Host, len(clients))

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
	}
	return d, cleanup, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/service"
	"github.com/iWorld-y/review_radar/app/review_radar/internal/usecase"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/logger"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/scraper"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "review_radar"
	// Version 是服务的版本号
	Version string

	id, _ = os.Hostname()
)

// runtimeEnv 各子命令共享的配置和日志
type runtimeEnv struct {
	confPath string
	cfg      *config.Config
	lg       *logrus.Logger
	logger   log.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	env := &runtimeEnv{}
	root := &cobra.Command{
		Use:          "review_radar",
		Short:        "Google Maps 评论抓取与可疑评论分析",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// serve 的日志写 stdout，其余命令的 stdout 留给 JSON 结果
			var console io.Writer = os.Stderr
			if cmd.Name() == "serve" {
				console = os.Stdout
			}
			return env.load(console)
		},
	}
	root.PersistentFlags().StringVar(&env.confPath, "conf", "app/review_radar/configs/config.yaml", "config path, eg: --conf config.yaml")

	root.AddCommand(
		newServeCmd(env),
		newPlaceCmd(env),
		newProfileCmd(env),
		newAnalyzeCmd(env),
		newGenerateCmd(env),
	)
	return root
}

func (e *runtimeEnv) load(console io.Writer) error {
	cfg, err := config.LoadConfig(e.confPath)
	if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}
	lg, err := logger.NewWithConsole(cfg.Log.Level, cfg.Log.File, console)
	if err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	logger.Log = lg

	e.cfg = cfg
	e.lg = lg
	e.logger = log.With(logger.NewKratosLogger(lg),
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)
	return nil
}

// withUseCase 组装 usecase 并在 ctrl-c 时取消抓取
func (e *runtimeEnv) withUseCase(fn func(ctx context.Context, uc *usecase.ReviewUseCase) (interface{}, error)) error {
	uc, cleanup, err := initUseCase(e.cfg, e.lg, e.logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := fn(ctx, uc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

func newServeCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := initApp(env.cfg, env.lg, env.logger)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.Run()
		},
	}
}

func newPlaceCmd(env *runtimeEnv) *cobra.Command {
	var (
		sort        string
		fullContent bool
		scrolls     int
	)
	cmd := &cobra.Command{
		Use:   "place <short-url>",
		Short: "抓取地点评论",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := model.ParseSortOrder(sort)
			if err != nil {
				return err
			}
			opts := scraper.PlaceOptions{URL: args[0], Sort: order, FullContent: fullContent}
			if cmd.Flags().Changed("scrolls") {
				opts.ScrollTimes = &scrolls
			}
			return env.withUseCase(func(ctx context.Context, uc *usecase.ReviewUseCase) (interface{}, error) {
				return uc.PlaceReviews(ctx, opts)
			})
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "relevant", "relevant | newest | highest | lowest")
	cmd.Flags().BoolVar(&fullContent, "full", false, "展开被截断的评论全文")
	cmd.Flags().IntVar(&scrolls, "scrolls", 0, "滚动次数，不指定时使用配置值")
	return cmd
}

func newProfileCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <contributor-url>",
		Short: "抓取个人主页的评论",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withUseCase(func(ctx context.Context, uc *usecase.ReviewUseCase) (interface{}, error) {
				return uc.PersonalReviews(ctx, args[0])
			})
		},
	}
}

// analyzeOutput analyze 命令的输出
type analyzeOutput struct {
	PlaceName        string          `json:"placeName"`
	TotalRating      string          `json:"totalRating"`
	TotalReviewCount string          `json:"totalReviewCount"`
	ReviewCount      int             `json:"reviewCount"`
	Analysis         *model.Analysis `json:"analysis"`
}

func newAnalyzeCmd(env *runtimeEnv) *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "analyze <short-url>",
		Short: "抓取最新评论并分析可疑程度",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParseProvider(provider)
			if err != nil {
				return err
			}
			return env.withUseCase(func(ctx context.Context, uc *usecase.ReviewUseCase) (interface{}, error) {
				place, analysis, err := uc.AnalyzePlace(ctx, args[0], p)
				if err != nil {
					return nil, err
				}
				return &analyzeOutput{
					PlaceName:        place.PlaceName,
					TotalRating:      place.TotalRating,
					TotalReviewCount: place.TotalReviewCount,
					ReviewCount:      len(place.Reviews),
					Analysis:         analysis,
				}, nil
			})
		},
	}
	cmd.Flags().StringVar(&provider, "model", "gpt", "gpt | gemini")
	return cmd
}

func newGenerateCmd(env *runtimeEnv) *cobra.Command {
	var (
		in          usecase.GenerateInput
		sentiment   string
		provider    string
		temperature float32
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "模仿个人写作风格生成地点评论",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParseProvider(provider)
			if err != nil {
				return err
			}
			in.Sentiment = model.Sentiment(sentiment)
			in.Provider = p
			in.Temperature = temperature
			return env.withUseCase(func(ctx context.Context, uc *usecase.ReviewUseCase) (interface{}, error) {
				review, err := uc.GenerateFromURLs(ctx, in)
				if err != nil {
					return nil, err
				}
				return map[string]string{"review": review}, nil
			})
		},
	}
	cmd.Flags().StringVar(&in.ProfileURL, "profile", "", "个人主页链接")
	cmd.Flags().StringVar(&in.PlaceURL, "place", "", "地点短链接")
	cmd.Flags().StringVar(&in.PersonalNotes, "notes", "", "个人备注")
	cmd.Flags().StringVar(&sentiment, "sentiment", string(model.SentimentPositive), "positive | neutral | negative")
	cmd.Flags().StringVar(&provider, "model", "gpt", "gpt | gemini")
	cmd.Flags().Float32Var(&temperature, "temperature", service.DefaultTemperature, "采样温度")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("place")
	return cmd
}

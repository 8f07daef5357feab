package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/repo"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/scraper"
)

// ReviewUseCase 评论抓取、分析与生成的业务逻辑
type ReviewUseCase struct {
	repo repo.ReviewRepo
	log  *log.Helper
}

// NewReviewUseCase 创建评论业务逻辑实例
func NewReviewUseCase(repo repo.ReviewRepo, logger log.Logger) *ReviewUseCase {
	return &ReviewUseCase{repo: repo, log: log.NewHelper(logger)}
}

// PlaceReviews 抓取地点评论
func (uc *ReviewUseCase) PlaceReviews(ctx context.Context, opts scraper.PlaceOptions) (*model.PlaceResult, error) {
	return uc.repo.ScrapePlace(ctx, opts)
}

// PersonalReviews 抓取个人主页评论
func (uc *ReviewUseCase) PersonalReviews(ctx context.Context, url string) (*model.ProfileResult, error) {
	return uc.repo.ScrapeProfile(ctx, url)
}

// Analyze 分析已过滤的评论
func (uc *ReviewUseCase) Analyze(ctx context.Context, placeName string, reviews []model.FilteredReview, provider model.Provider) (*model.Analysis, error) {
	return uc.repo.Analyze(ctx, placeName, reviews, provider)
}

// AnalyzePlace 按最新排序抓取地点评论，去除身份信息后分析
func (uc *ReviewUseCase) AnalyzePlace(ctx context.Context, url string, provider model.Provider) (*model.PlaceResult, *model.Analysis, error) {
	place, err := uc.repo.ScrapePlace(ctx, scraper.PlaceOptions{URL: url, Sort: model.SortNewest})
	if err != nil {
		return nil, nil, err
	}
	result, err := uc.repo.Analyze(ctx, place.PlaceName, model.FilterReviews(place.Reviews), provider)
	if err != nil {
		return place, nil, err
	}
	return place, result, nil
}

// Generate 根据给定样本生成评论
func (uc *ReviewUseCase) Generate(ctx context.Context, req model.GenerationRequest) (string, error) {
	return uc.repo.Generate(ctx, req)
}

// GenerateInput 通过两个地址生成评论的参数
type GenerateInput struct {
	ProfileURL    string
	PlaceURL      string
	PersonalNotes string
	Sentiment     model.Sentiment
	Provider      model.Provider
	Temperature   float32
}

// GenerateFromURLs 并发抓取个人主页和地点评论，取样后生成评论。
// 地点评论按情绪对应的排序抓取，不滚动、展开全文
func (uc *ReviewUseCase) GenerateFromURLs(ctx context.Context, in GenerateInput) (string, error) {
	if !in.Sentiment.Valid() {
		return "", model.BadRequest("invalid sentiment: " + string(in.Sentiment))
	}

	var (
		profile *model.ProfileResult
		place   *model.PlaceResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = uc.repo.ScrapeProfile(gctx, in.ProfileURL)
		return err
	})
	g.Go(func() (err error) {
		noScroll := 0
		place, err = uc.repo.ScrapePlace(gctx, scraper.PlaceOptions{
			URL:         in.PlaceURL,
			Sort:        model.SentimentSort(in.Sentiment),
			FullContent: true,
			ScrollTimes: &noScroll,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		uc.log.WithContext(ctx).Errorf("scrape for generation failed: %v", err)
		return "", err
	}

	req := model.GenerationRequest{
		PersonalReviews: model.SampleContents(profile.Reviews, model.MaxPersonalSamples),
		PlaceReviews:    model.SampleContents(place.Reviews, model.MaxPlaceSamples),
		PersonalNotes:   in.PersonalNotes,
		Sentiment:       in.Sentiment,
		Provider:        in.Provider,
		Temperature:     in.Temperature,
	}
	uc.log.WithContext(ctx).Infof("generating review for %s with %d personal and %d place samples",
		place.PlaceName, len(req.PersonalReviews), len(req.PlaceReviews))
	return uc.repo.Generate(ctx, req)
}

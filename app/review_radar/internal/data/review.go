package data

import (
	"context"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/repo"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/scraper"
)

type reviewRepo struct {
	data *Data
}

// NewReviewRepo 创建评论仓库
func NewReviewRepo(data *Data) repo.ReviewRepo {
	return &reviewRepo{data: data}
}

func (r *reviewRepo) ScrapePlace(ctx context.Context, opts scraper.PlaceOptions) (*model.PlaceResult, error) {
	return r.data.scraper.ScrapePlace(ctx, opts)
}

func (r *reviewRepo) ScrapeProfile(ctx context.Context, url string) (*model.ProfileResult, error) {
	return r.data.scraper.ScrapeProfile(ctx, url)
}

func (r *reviewRepo) Analyze(ctx context.Context, placeName string, reviews []model.FilteredReview, provider model.Provider) (*model.Analysis, error) {
	return r.data.analyzer.Analyze(ctx, placeName, reviews, provider)
}

func (r *reviewRepo) Generate(ctx context.Context, req model.GenerationRequest) (string, error) {
	return r.data.generator.Generate(ctx, req)
}

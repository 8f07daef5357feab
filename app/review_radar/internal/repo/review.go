package repo

import (
	"context"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/scraper"
)

// ReviewRepo 评论抓取与 LLM 能力的接口
type ReviewRepo interface {
	// ScrapePlace 抓取地点评论
	ScrapePlace(ctx context.Context, opts scraper.PlaceOptions) (*model.PlaceResult, error)
	// ScrapeProfile 抓取个人主页评论
	ScrapeProfile(ctx context.Context, url string) (*model.ProfileResult, error)
	// Analyze 分析评论可疑度
	Analyze(ctx context.Context, placeName string, reviews []model.FilteredReview, provider model.Provider) (*model.Analysis, error)
	// Generate 生成评论
	Generate(ctx context.Context, req model.GenerationRequest) (string, error)
}

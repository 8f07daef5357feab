package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/usecase"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/scraper"
)

const (
	// DefaultTemperature 请求未给出 temperature 时使用
	DefaultTemperature float32 = 0.7
	// ScrapeFailedMessage 5xx 抓取失败时返回给客户端的信息
	ScrapeFailedMessage = "Failed to process the URL"
)

// PlaceReviewsRequest GET /api/place-reviews 的查询参数
type PlaceReviewsRequest struct {
	URL         string `json:"url"`
	Sort        string `json:"sort"`
	FullContent string `json:"fullContent"`
	ScrollTimes string `json:"scrollTimes"`
}

// PersonalReviewsRequest GET /api/personal-reviews 的查询参数
type PersonalReviewsRequest struct {
	URL string `json:"url"`
}

// PersonalReviewsReply 个人主页评论
type PersonalReviewsReply struct {
	ProfileID string                 `json:"profileId,omitempty"`
	Reviews   []model.PersonalReview `json:"reviews"`
}

// AnalysisRequest POST /api/analysis
type AnalysisRequest struct {
	PlaceName string                 `json:"placeName"`
	Reviews   []model.FilteredReview `json:"reviews"`
	Model     string                 `json:"model"`
}

// GenerateReviewRequest POST /api/generate-review
type GenerateReviewRequest struct {
	PersonalReviews []string `json:"personalReviews"`
	PlaceReviews    []string `json:"placeReviews"`
	PersonalNotes   string   `json:"personalNotes"`
	Sentiment       string   `json:"sentiment"`
	Model           string   `json:"model"`
	Temperature     *float32 `json:"temperature"`
}

// ReviewGeneratorRequest POST /api/review-generator
type ReviewGeneratorRequest struct {
	ProfileURL    string   `json:"profileUrl"`
	PlaceURL      string   `json:"placeUrl"`
	PersonalNotes string   `json:"personalNotes"`
	Sentiment     string   `json:"sentiment"`
	Model         string   `json:"model"`
	Temperature   *float32 `json:"temperature"`
}

// GenerateReviewReply 生成的评论
type GenerateReviewReply struct {
	Review string `json:"review"`
}

// StatusReply 预热请求的回复
type StatusReply struct {
	Status string `json:"status"`
}

// ReviewService 对外的 HTTP 服务
type ReviewService struct {
	uc  *usecase.ReviewUseCase
	log *log.Helper
}

func NewReviewService(uc *usecase.ReviewUseCase, logger log.Logger) *ReviewService {
	return &ReviewService{uc: uc, log: log.NewHelper(logger)}
}

// isWarmup 定时任务的预热请求不触发抓取
func isWarmup(ctx context.Context) bool {
	tr, ok := transport.FromServerContext(ctx)
	if !ok {
		return false
	}
	return strings.Contains(tr.RequestHeader().Get("User-Agent"), "GitHub-Actions")
}

func (s *ReviewService) PlaceReviews(ctx context.Context, req *PlaceReviewsRequest) (interface{}, error) {
	if isWarmup(ctx) {
		return &StatusReply{Status: "ok"}, nil
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, model.BadRequest("Missing Google Maps short URL")
	}
	sort, err := model.ParseSortOrder(req.Sort)
	if err != nil {
		return nil, model.BadRequest(err.Error())
	}
	opts := scraper.PlaceOptions{
		URL:         req.URL,
		Sort:        sort,
		FullContent: req.FullContent == "true",
	}
	if req.ScrollTimes != "" {
		n, err := strconv.Atoi(req.ScrollTimes)
		if err != nil || n < 0 {
			return nil, model.BadRequest("invalid scrollTimes: " + req.ScrollTimes)
		}
		opts.ScrollTimes = &n
	}

	res, err := s.uc.PlaceReviews(ctx, opts)
	if err != nil {
		s.log.WithContext(ctx).Errorf("place reviews %s: %+v", req.URL, err)
		return nil, scrapeError(err)
	}
	return res, nil
}

func (s *ReviewService) PersonalReviews(ctx context.Context, req *PersonalReviewsRequest) (*PersonalReviewsReply, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, model.BadRequest("Missing Google Maps profile URL")
	}
	res, err := s.uc.PersonalReviews(ctx, req.URL)
	if err != nil {
		s.log.WithContext(ctx).Errorf("personal reviews %s: %+v", req.URL, err)
		return nil, scrapeError(err)
	}
	return &PersonalReviewsReply{ProfileID: res.ProfileID, Reviews: res.Reviews}, nil
}

// Analysis 失败细节只记日志，对外统一为 "Failed to analyze reviews"
func (s *ReviewService) Analysis(ctx context.Context, req *AnalysisRequest) (*model.Analysis, error) {
	provider, err := model.ParseProvider(req.Model)
	if err != nil {
		return nil, model.BadRequest(err.Error())
	}
	res, err := s.uc.Analyze(ctx, req.PlaceName, req.Reviews, provider)
	if err != nil {
		s.log.WithContext(ctx).Errorf("analysis of %s failed: %+v", req.PlaceName, err)
		return nil, errors.Clone(model.ErrAnalysis)
	}
	return res, nil
}

func (s *ReviewService) GenerateReview(ctx context.Context, req *GenerateReviewRequest) (*GenerateReviewReply, error) {
	provider, err := model.ParseProvider(req.Model)
	if err != nil {
		return nil, model.BadRequest(err.Error())
	}
	out, err := s.uc.Generate(ctx, model.GenerationRequest{
		PersonalReviews: req.PersonalReviews,
		PlaceReviews:    req.PlaceReviews,
		PersonalNotes:   req.PersonalNotes,
		Sentiment:       model.Sentiment(req.Sentiment),
		Provider:        provider,
		Temperature:     temperature(req.Temperature),
	})
	if err != nil {
		return nil, err
	}
	return &GenerateReviewReply{Review: out}, nil
}

func (s *ReviewService) ReviewGenerator(ctx context.Context, req *ReviewGeneratorRequest) (*GenerateReviewReply, error) {
	if strings.TrimSpace(req.ProfileURL) == "" || strings.TrimSpace(req.PlaceURL) == "" {
		return nil, model.BadRequest("profileUrl and placeUrl are required")
	}
	provider, err := model.ParseProvider(req.Model)
	if err != nil {
		return nil, model.BadRequest(err.Error())
	}
	out, err := s.uc.GenerateFromURLs(ctx, usecase.GenerateInput{
		ProfileURL:    req.ProfileURL,
		PlaceURL:      req.PlaceURL,
		PersonalNotes: req.PersonalNotes,
		Sentiment:     model.Sentiment(req.Sentiment),
		Provider:      provider,
		Temperature:   temperature(req.Temperature),
	})
	if err != nil {
		if errors.Reason(err) == model.ReasonGeneration {
			return nil, err
		}
		s.log.WithContext(ctx).Errorf("review generator %s + %s: %+v", req.ProfileURL, req.PlaceURL, err)
		return nil, scrapeError(err)
	}
	return &GenerateReviewReply{Review: out}, nil
}

// scrapeError 抓取失败的对外形式：5xx 只给统一信息，4xx 保留简短 message，cause 和 metadata 都不外传
func scrapeError(err error) error {
	se := errors.FromError(err)
	if se.Code >= 500 {
		return errors.New(int(se.Code), se.Reason, ScrapeFailedMessage)
	}
	return errors.New(int(se.Code), se.Reason, se.Message)
}

func temperature(t *float32) float32 {
	if t == nil {
		return DefaultTemperature
	}
	return *t
}

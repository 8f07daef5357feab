package server

import (
	"context"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/service"
)

const (
	OperationPlaceReviews    = "/review_radar.Review/PlaceReviews"
	OperationPersonalReviews = "/review_radar.Review/PersonalReviews"
	OperationAnalysis        = "/review_radar.Review/Analysis"
	OperationGenerateReview  = "/review_radar.Review/GenerateReview"
	OperationReviewGenerator = "/review_radar.Review/ReviewGenerator"
)

// RegisterReviewHTTPServer 注册评论相关路由
func RegisterReviewHTTPServer(s *http.Server, srv *service.ReviewService) {
	r := s.Route("/api")
	r.GET("/place-reviews", _Review_PlaceReviews0_HTTP_Handler(srv))
	r.GET("/personal-reviews", _Review_PersonalReviews0_HTTP_Handler(srv))
	r.POST("/analysis", _Review_Analysis0_HTTP_Handler(srv))
	r.HEAD("/analysis", _Review_Analysis1_HTTP_Handler())
	r.POST("/generate-review", _Review_GenerateReview0_HTTP_Handler(srv))
	r.POST("/review-generator", _Review_ReviewGenerator0_HTTP_Handler(srv))
}

func _Review_PlaceReviews0_HTTP_Handler(srv *service.ReviewService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.PlaceReviewsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationPlaceReviews)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.PlaceReviews(ctx, req.(*service.PlaceReviewsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func _Review_PersonalReviews0_HTTP_Handler(srv *service.ReviewService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.PersonalReviewsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationPersonalReviews)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.PersonalReviews(ctx, req.(*service.PersonalReviewsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func _Review_Analysis0_HTTP_Handler(srv *service.ReviewService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.AnalysisRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAnalysis)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Analysis(ctx, req.(*service.AnalysisRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

// HEAD /api/analysis 用于预热
func _Review_Analysis1_HTTP_Handler() func(ctx http.Context) error {
	return func(ctx http.Context) error {
		ctx.Response().WriteHeader(nethttp.StatusOK)
		return nil
	}
}

func _Review_GenerateReview0_HTTP_Handler(srv *service.ReviewService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.GenerateReviewRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGenerateReview)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GenerateReview(ctx, req.(*service.GenerateReviewRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func _Review_ReviewGenerator0_HTTP_Handler(srv *service.ReviewService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.ReviewGeneratorRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationReviewGenerator)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ReviewGenerator(ctx, req.(*service.ReviewGeneratorRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

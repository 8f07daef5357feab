package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/service"
	"github.com/iWorld-y/review_radar/app/review_radar/internal/usecase"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/scraper"
)

type stubRepo struct {
	placeOpts   scraper.PlaceOptions
	placeCalls  int
	placeErr    error
	profileErr  error
	analyzeErr  error
	generateErr error
}

func (s *stubRepo) ScrapePlace(_ context.Context, opts scraper.PlaceOptions) (*model.PlaceResult, error) {
	s.placeCalls++
	s.placeOpts = opts
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return &model.PlaceResult{PlaceName: "鼎泰豐", TotalRating: "4.5 顆星", TotalReviewCount: "(10)", Reviews: []model.Review{}}, nil
}

func (s *stubRepo) ScrapeProfile(context.Context, string) (*model.ProfileResult, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return &model.ProfileResult{ProfileID: "1", Reviews: []model.PersonalReview{{Rating: "5", Photos: []string{}}}}, nil
}

func (s *stubRepo) Analyze(context.Context, string, []model.FilteredReview, model.Provider) (*model.Analysis, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return &model.Analysis{SuspicionScore: 30, Findings: []string{"ok"}}, nil
}

func (s *stubRepo) Generate(context.Context, model.GenerationRequest) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "好吃", nil
}

func newTestServer(repo *stubRepo) nethttp.Handler {
	logger := log.DefaultLogger
	svc := service.NewReviewService(usecase.NewReviewUseCase(repo, logger), logger)
	return NewHTTPServer(config.Default(), svc, logger)
}

func do(t *testing.T, h nethttp.Handler, method, target, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestPlaceReviewsWarmup(t *testing.T) {
	repo := &stubRepo{}
	rec, out := do(t, newTestServer(repo), nethttp.MethodGet, "/api/place-reviews?url=x", "", map[string]string{"User-Agent": "GitHub-Actions/cron"})
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, 0, repo.placeCalls)
}

func TestPlaceReviews(t *testing.T) {
	repo := &stubRepo{}
	h := newTestServer(repo)

	rec, out := do(t, h, nethttp.MethodGet, "/api/place-reviews?url=https%3A%2F%2Fmaps.app.goo.gl%2Fx&sort=newest&fullContent=true&scrollTimes=2", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "鼎泰豐", out["placeName"])
	assert.Equal(t, "https://maps.app.goo.gl/x", repo.placeOpts.URL)
	assert.Equal(t, model.SortNewest, repo.placeOpts.Sort)
	assert.True(t, repo.placeOpts.FullContent)
	require.NotNil(t, repo.placeOpts.ScrollTimes)
	assert.Equal(t, 2, *repo.placeOpts.ScrollTimes)

	rec, out = do(t, h, nethttp.MethodGet, "/api/place-reviews", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing Google Maps short URL", out["error"])

	rec, _ = do(t, h, nethttp.MethodGet, "/api/place-reviews?url=x&sort=oldest", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestScrapeFailureHidesDetail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   int
		reason string
		want   string
	}{
		{"typed 5xx", model.Wrap(model.ErrBrowserLaunch, "browser executable not found: /usr/bin/google-chrome", stderrors.New("stat: no such file")),
			nethttp.StatusInternalServerError, model.ReasonBrowserLaunch, "Failed to process the URL"},
		{"untyped", stderrors.New("cdp: Runtime.evaluate: Execution context was destroyed"),
			nethttp.StatusInternalServerError, "", "Failed to process the URL"},
		{"step timeout", model.Wrap(model.ErrTimeout, "reviews did not show up", context.DeadlineExceeded),
			nethttp.StatusGatewayTimeout, model.ReasonTimeout, "Failed to process the URL"},
		{"4xx keeps short message", model.Wrap(model.ErrInvalidURL, "", stderrors.New("resolved to https://example.com/x")),
			nethttp.StatusBadRequest, model.ReasonInvalidURL, "Invalid Google Maps URL"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newTestServer(&stubRepo{placeErr: c.err, profileErr: c.err})
			for _, target := range []string{"/api/place-reviews?url=x", "/api/personal-reviews?url=x"} {
				rec, out := do(t, h, nethttp.MethodGet, target, "", nil)
				assert.Equal(t, c.code, rec.Code, target)
				assert.Equal(t, c.want, out["error"], target)
				if c.reason != "" {
					assert.Equal(t, c.reason, out["reason"], target)
				}
				assert.NotContains(t, rec.Body.String(), "google-chrome")
				assert.NotContains(t, rec.Body.String(), "Runtime.evaluate")
				assert.NotContains(t, rec.Body.String(), "resolved to")
			}
		})
	}
}

func TestReviewGeneratorScrapeFailureHidesDetail(t *testing.T) {
	repo := &stubRepo{profileErr: stderrors.New("cdp: target closed")}
	rec, out := do(t, newTestServer(repo), nethttp.MethodPost, "/api/review-generator",
		`{"profileUrl":"https://www.google.com/maps/contrib/1","placeUrl":"https://maps.app.goo.gl/x","sentiment":"positive"}`, nil)
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to process the URL", out["error"])
	assert.NotContains(t, rec.Body.String(), "target closed")
}

func TestPersonalReviews(t *testing.T) {
	rec, out := do(t, newTestServer(&stubRepo{}), nethttp.MethodGet, "/api/personal-reviews?url=https%3A%2F%2Fwww.google.com%2Fmaps%2Fcontrib%2F1", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	reviews, ok := out["reviews"].([]interface{})
	require.True(t, ok)
	assert.Len(t, reviews, 1)
}

func TestAnalysisHidesDetail(t *testing.T) {
	repo := &stubRepo{analyzeErr: model.Wrap(model.ErrAnalysis, "", model.Wrap(model.ErrValidation, "", nil))}
	rec, out := do(t, newTestServer(repo), nethttp.MethodPost, "/api/analysis", `{"placeName":"x","reviews":[],"model":"gpt"}`, nil)
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to analyze reviews", out["error"])
}

func TestAnalysis(t *testing.T) {
	rec, out := do(t, newTestServer(&stubRepo{}), nethttp.MethodPost, "/api/analysis", `{"placeName":"x","reviews":[],"model":"gemini"}`, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, float64(30), out["suspicionScore"])

	rec, _ = do(t, newTestServer(&stubRepo{}), nethttp.MethodHead, "/api/analysis", "", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestGenerateReviewError(t *testing.T) {
	cause := assert.AnError
	repo := &stubRepo{generateErr: model.Wrap(model.ErrGeneration, "", cause).WithMetadata(map[string]string{"error": cause.Error()})}
	rec, out := do(t, newTestServer(repo), nethttp.MethodPost, "/api/generate-review", `{"sentiment":"positive","model":"gpt"}`, nil)
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error generating review", out["message"])
	assert.Equal(t, cause.Error(), out["error"])
}

func TestReviewGenerator(t *testing.T) {
	repo := &stubRepo{}
	h := newTestServer(repo)

	rec, out := do(t, h, nethttp.MethodPost, "/api/review-generator",
		`{"profileUrl":"https://www.google.com/maps/contrib/1","placeUrl":"https://maps.app.goo.gl/x","personalNotes":"n","sentiment":"positive","model":"gemini"}`, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "好吃", out["review"])
	assert.Equal(t, model.SortHighest, repo.placeOpts.Sort)

	rec, _ = do(t, h, nethttp.MethodPost, "/api/review-generator", `{"placeUrl":"x","sentiment":"positive"}`, nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := do(t, newTestServer(&stubRepo{}), nethttp.MethodGet, "/metrics", "", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

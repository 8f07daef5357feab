package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/browser"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// Extractor 在页面稳定后取一次 DOM 快照并解析出评论
type Extractor struct {
	fields []Field
}

// NewExtractor fields 为空时使用地点页的完整字段
func NewExtractor(fields ...Field) *Extractor {
	if len(fields) == 0 {
		fields = placeFields
	}
	return &Extractor{fields: fields}
}

// ParseReviews 按 DOM 顺序解析 html 中的所有评论
func (e *Extractor) ParseReviews(html string) ([]model.Review, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse review html: %w", err)
	}
	reviews := []model.Review{}
	doc.Find(reviewSelector).Each(func(_ int, node *goquery.Selection) {
		id := node.AttrOr("data-review-id", "")
		r := model.Review{Photos: []string{}}
		for _, f := range e.fields {
			f(id, node, &r)
		}
		reviews = append(reviews, r)
	})
	return reviews, nil
}

// Extract 读取页面快照后解析
func (e *Extractor) Extract(ctx context.Context, page browser.Page) ([]model.Review, error) {
	html, err := page.HTML(ctx, snapshotSelector)
	if err != nil {
		return nil, stepError(model.ErrTimeout, "failed to read page content", err)
	}
	return e.ParseReviews(html)
}

// ExtractPlace 地点页评论
func ExtractPlace(ctx context.Context, page browser.Page) ([]model.Review, error) {
	return NewExtractor(placeFields...).Extract(ctx, page)
}

// ExtractPersonal 个人主页评论
func ExtractPersonal(ctx context.Context, page browser.Page) ([]model.PersonalReview, error) {
	reviews, err := NewExtractor(personalFields...).Extract(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]model.PersonalReview, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.Personal())
	}
	return out, nil
}

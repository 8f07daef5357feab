package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/llm"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/logger"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// Analyzer 调用 LLM 判断地点评论是否有刷评迹象
type Analyzer struct {
	clients map[model.Provider]llm.Client
	log     logrus.FieldLogger
}

func NewAnalyzer(clients map[model.Provider]llm.Client, log logrus.FieldLogger) *Analyzer {
	return &Analyzer{clients: clients, log: logger.Or(log)}
}

// Analyze 失败时统一返回 ErrAnalysis，具体原因在 cause 中，不做重试
func (a *Analyzer) Analyze(ctx context.Context, placeName string, reviews []model.FilteredReview, provider model.Provider) (*model.Analysis, error) {
	log := a.log.WithFields(logrus.Fields{"place": placeName, "provider": provider, "reviews": len(reviews)})

	client, ok := a.clients[provider]
	if !ok {
		return nil, model.Wrap(model.ErrAnalysis, "", fmt.Errorf("llm provider not configured: %s", provider))
	}

	user, err := UserPrompt(placeName, reviews)
	if err != nil {
		return nil, model.Wrap(model.ErrAnalysis, "", err)
	}
	req := llm.Request{
		System: SystemPrompt(),
		User:   user,
		Format: llm.FormatJSONObject,
	}
	// 只有 Gemini 支持按 schema 约束输出，OpenAI 依赖 Validate 兜底
	if provider == model.ProviderGemini {
		req.Schema = ResponseSchema()
	}

	text, err := client.Complete(ctx, req)
	if err != nil {
		log.WithError(err).Error("analysis request failed")
		return nil, model.Wrap(model.ErrAnalysis, "", err)
	}

	result, err := Validate([]byte(llm.StripCodeFence(strings.TrimSpace(text))))
	if err != nil {
		log.WithError(err).Errorf("invalid %s response", provider)
		return nil, model.Wrap(model.ErrAnalysis, "", err)
	}
	log.WithField("score", result.SuspicionScore).Info("reviews analyzed")
	return result, nil
}

package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/llm"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/logger"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// Generator 按用户的历史风格生成一篇地点评论
type Generator struct {
	clients map[model.Provider]llm.Client
	log     logrus.FieldLogger
}

func NewGenerator(clients map[model.Provider]llm.Client, log logrus.FieldLogger) *Generator {
	return &Generator{clients: clients, log: logger.Or(log)}
}

// Generate temperature 原样透传，超出范围由提供方拒绝
func (g *Generator) Generate(ctx context.Context, req model.GenerationRequest) (string, error) {
	provider, err := model.ParseProvider(string(req.Provider))
	if err != nil {
		return "", model.BadRequest(err.Error())
	}
	req.Provider = provider
	if err := req.Validate(); err != nil {
		return "", model.BadRequest(err.Error())
	}

	client, ok := g.clients[provider]
	if !ok {
		return "", generationError(fmt.Errorf("llm provider not configured: %s", provider))
	}
	user, err := UserPrompt(req)
	if err != nil {
		return "", generationError(err)
	}

	log := g.log.WithFields(logrus.Fields{"provider": provider, "sentiment": req.Sentiment, "temperature": req.Temperature})
	text, err := client.Complete(ctx, llm.Request{
		System:      SystemPrompt(),
		User:        user,
		Temperature: llm.Float32(req.Temperature),
	})
	if err != nil {
		log.WithError(err).Error("generate review failed")
		return "", generationError(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Error("generate review returned empty text")
		return "", generationError(errors.New("empty response from provider"))
	}
	log.WithField("length", len([]rune(text))).Info("review generated")
	return text, nil
}

// generationError 保留提供方的原始错误信息供前端展示
func generationError(cause error) error {
	return model.Wrap(model.ErrGeneration, "", cause).WithMetadata(map[string]string{"error": cause.Error()})
}

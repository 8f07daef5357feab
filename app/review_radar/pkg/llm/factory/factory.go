package factory

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/llm"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/logger"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/metrics"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// Clients 按提供方索引的 LLM 客户端
type Clients map[model.Provider]llm.Client

// Get 未配置的提供方返回错误
func (c Clients) Get(p model.Provider) (llm.Client, error) {
	client, ok := c[p]
	if !ok {
		return nil, fmt.Errorf("llm provider not configured: %s", p)
	}
	return client, nil
}

// NewLimiter 按 RPM 均匀放行，突发上限为 QPS；RPM 为 0 时不限流
func NewLimiter(cfg config.ConcurrencyConfig) *rate.Limiter {
	if cfg.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(math.Max(float64(cfg.QPS), 1))
	return rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), burst)
}

// NewClients 根据配置创建各提供方的客户端，缺少 api key 的提供方跳过
func NewClients(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log logrus.FieldLogger) (Clients, error) {
	log = logger.Or(log)
	limiter := NewLimiter(cfg.LLM.Concurrency)
	timeout := cfg.LLM.Timeout.Std()
	clients := Clients{}

	if cfg.LLM.OpenAI.APIKey != "" {
		c, err := llm.NewOpenAIClient(ctx, cfg.LLM.OpenAI, timeout)
		if err != nil {
			return nil, err
		}
		clients[model.ProviderOpenAI] = llm.Instrument(c, string(model.ProviderOpenAI), limiter, m)
	} else {
		log.Warn("openai api key is missing, provider disabled")
	}

	if cfg.LLM.Gemini.APIKey != "" {
		c, err := llm.NewGeminiClient(ctx, cfg.LLM.Gemini, timeout)
		if err != nil {
			return nil, err
		}
		clients[model.ProviderGemini] = llm.Instrument(c, string(model.ProviderGemini), limiter, m)
	} else {
		log.Warn("gemini api key is missing, provider disabled")
	}
	return clients, nil
}

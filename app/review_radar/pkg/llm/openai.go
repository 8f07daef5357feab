package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
)

// OpenAIClient 基于 eino 的 OpenAI 兼容客户端。
// response_format 只能在创建时指定，所以 JSON 模式单独持有一个 ChatModel
type OpenAIClient struct {
	text model.BaseChatModel
	json model.BaseChatModel
}

// NewOpenAIClient 创建 OpenAI 客户端
func NewOpenAIClient(ctx context.Context, cfg config.ProviderConfig, timeout time.Duration) (*OpenAIClient, error) {
	base := openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: timeout,
	}
	text, err := openai.NewChatModel(ctx, &base)
	if err != nil {
		return nil, fmt.Errorf("openai 初始化失败: %w", err)
	}

	jsonCfg := base
	jsonCfg.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	jsonModel, err := openai.NewChatModel(ctx, &jsonCfg)
	if err != nil {
		return nil, fmt.Errorf("openai 初始化失败: %w", err)
	}
	return &OpenAIClient{text: text, json: jsonModel}, nil
}

// NewOpenAIClientWithModels 直接使用给定的 ChatModel，测试中注入假实现
func NewOpenAIClientWithModels(text, json model.BaseChatModel) *OpenAIClient {
	return &OpenAIClient{text: text, json: json}
}

// Complete OpenAI 不支持 Schema 约束，JSON 模式只保证输出是一个对象
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	cm := c.text
	if req.Format == FormatJSONObject {
		cm = c.json
	}

	messages := make([]*schema.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: req.System})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: req.User})

	var opts []model.Option
	if req.Temperature != nil {
		opts = append(opts, model.WithTemperature(*req.Temperature))
	}

	resp, err := cm.Generate(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}

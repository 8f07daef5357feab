package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
)

// contentGenerator genai.Models 中用到的方法
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient 基于 genai SDK，Schema 会转换为 ResponseSchema 强制结构化输出
type GeminiClient struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGeminiClient 创建 Gemini 客户端
func NewGeminiClient(ctx context.Context, cfg config.ProviderConfig, timeout time.Duration) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini 初始化失败: %w", err)
	}
	return &GeminiClient{models: client.Models, model: cfg.Model, timeout: timeout}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	gc := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Format == FormatJSONObject || req.Schema != nil {
		gc.ResponseMIMEType = "application/json"
	}
	if req.Schema != nil {
		gc.ResponseSchema = ToGenaiSchema(req.Schema)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.User), gc)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}

var genaiTypes = map[SchemaType]genai.Type{
	TypeObject:  genai.TypeObject,
	TypeArray:   genai.TypeArray,
	TypeString:  genai.TypeString,
	TypeNumber:  genai.TypeNumber,
	TypeInteger: genai.TypeInteger,
}

// ToGenaiSchema 转换为 genai 的 Schema
func ToGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Required:    s.Required,
		Items:       ToGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = ToGenaiSchema(p)
		}
	}
	return out
}

func newGeminiClient(models contentGenerator, model string) *GeminiClient {
	return &GeminiClient{models: models, model: model}
}

package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/metrics"
)

// Client 定义通用的 LLM 调用接口
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Format 期望的回复格式
type Format int

const (
	FormatText Format = iota
	FormatJSONObject
)

// Request 通用补全请求
type Request struct {
	System      string
	User        string
	Temperature *float32 // 为空时使用提供方默认值
	Format      Format
	Schema      *Schema // 支持结构化输出的提供方会强制按此返回
}

// SchemaType JSON Schema 的基本类型
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
)

// Schema 结构化输出的描述，只覆盖用得到的子集
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
}

// StripCodeFence 去掉模型常带的 ```json 包裹
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Float32 temperature 取址
func Float32(v float32) *float32 { return &v }

// instrumented 在调用前限流，调用后记录指标
type instrumented struct {
	next     Client
	provider string
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
}

// Instrument 为 next 加上限流与指标，limiter 可为空
func Instrument(next Client, provider string, limiter *rate.Limiter, m *metrics.Metrics) Client {
	return &instrumented{next: next, provider: provider, limiter: limiter, metrics: m}
}

func (c *instrumented) Complete(ctx context.Context, req Request) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	start := time.Now()
	out, err := c.next.Complete(ctx, req)
	c.metrics.ObserveLLM(c.provider, start, err)
	return out, err
}

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 抓取步骤与 LLM 调用的 Prometheus 指标
type Metrics struct {
	stepDuration *prometheus.HistogramVec
	llmDuration  *prometheus.HistogramVec
	llmCalls     *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default 注册在全局 registry 上的实例，只创建一次以免重复注册 panic
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew 在 reg 上注册指标，测试中可传入独立的 registry
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "review_radar",
				Subsystem: "scrape",
				Name:      "step_duration_seconds",
				Help:      "Duration of each page automation step.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"kind", "step", "status"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "review_radar",
				Subsystem: "llm",
				Name:      "call_duration_seconds",
				Help:      "Duration of LLM provider calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		llmCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "review_radar",
				Subsystem: "llm",
				Name:      "calls_total",
				Help:      "LLM provider calls by outcome.",
			},
			[]string{"provider", "status"},
		),
	}
	reg.MustRegister(m.stepDuration, m.llmDuration, m.llmCalls)
	return m
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveStep 记录一个抓取步骤耗时，kind 为 place 或 profile
func (m *Metrics) ObserveStep(kind, step string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(kind, step, status(err)).Observe(time.Since(start).Seconds())
}

// ObserveLLM 记录一次 LLM 调用
func (m *Metrics) ObserveLLM(provider string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.llmDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	m.llmCalls.WithLabelValues(provider, status(err)).Inc()
}

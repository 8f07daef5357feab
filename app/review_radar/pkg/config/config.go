package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	LLM     LLMConfig     `yaml:"llm"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"` // 单个请求的上限，抓取可能耗时较长
}

// BrowserConfig 浏览器配置
type BrowserConfig struct {
	Host       string `yaml:"host"`        // local / serverless / remote
	ExecPath   string `yaml:"exec_path"`   // 本地浏览器路径，为空时按平台推断
	BundledBin string `yaml:"bundled_bin"` // serverless 环境下的精简 chromium
	CDPURL     string `yaml:"cdp_url"`     // remote 模式下的 DevTools 地址
	Headless   *bool  `yaml:"headless"`
	UserAgent  string `yaml:"user_agent"`
}

// ScrapeConfig 页面交互的超时与等待
type ScrapeConfig struct {
	Language          string   `yaml:"language"`
	CanonicalPrefix   string   `yaml:"canonical_prefix"`
	NavigationTimeout Duration `yaml:"navigation_timeout"`
	TabTimeout        Duration `yaml:"tab_timeout"`
	SortTimeout       Duration `yaml:"sort_timeout"`
	ReviewsTimeout    Duration `yaml:"reviews_timeout"`
	ResolveTimeout    Duration `yaml:"resolve_timeout"`
	TabSettle         Duration `yaml:"tab_settle"`
	SortSettle        Duration `yaml:"sort_settle"`
	ScrollPause       Duration `yaml:"scroll_pause"`
	ExpandSettle      Duration `yaml:"expand_settle"`
	PlaceScrolls      int      `yaml:"place_scrolls"`
	ProfileScrolls    int      `yaml:"profile_scrolls"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	OpenAI      ProviderConfig    `yaml:"openai"`
	Gemini      ProviderConfig    `yaml:"gemini"`
	Timeout     Duration          `yaml:"timeout"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// ProviderConfig 单个提供方
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// ConcurrencyConfig 调用 LLM 的客户端节流，RPM 为 0 时不限
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Duration 支持 "30s" 这种写法的 yaml 字段
type Duration time.Duration

// UnmarshalYAML 实现 yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std 转为 time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", Timeout: "180s"},
		Browser: BrowserConfig{
			Host:       "local",
			BundledBin: "/opt/chromium/chromium",
		},
		Scrape: ScrapeConfig{
			Language:          "zh-TW",
			CanonicalPrefix:   "https://www.google.com/maps/",
			NavigationTimeout: Duration(30 * time.Second),
			TabTimeout:        Duration(5 * time.Second),
			SortTimeout:       Duration(10 * time.Second),
			ReviewsTimeout:    Duration(60 * time.Second),
			ResolveTimeout:    Duration(15 * time.Second),
			TabSettle:         Duration(500 * time.Millisecond),
			SortSettle:        Duration(3 * time.Second),
			ScrollPause:       Duration(300 * time.Millisecond),
			ExpandSettle:      Duration(2 * time.Second),
			PlaceScrolls:      10,
			ProfileScrolls:    5,
		},
		LLM: LLMConfig{
			OpenAI:  ProviderConfig{Model: "gpt-4o-mini"},
			Gemini:  ProviderConfig{Model: "gemini-2.0-flash-lite"},
			Timeout: Duration(60 * time.Second),
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig 从指定路径加载配置，文件中未出现的字段保留默认值，
// 随后用环境变量（含 .env）覆盖密钥和运行环境相关的字段
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&c.LLM.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&c.LLM.Gemini.APIKey, "GEMINI_API_KEY")
	set(&c.Browser.Host, "BROWSER_HOST")
	set(&c.Browser.ExecPath, "CHROME_PATH")
	set(&c.Browser.BundledBin, "CHROMIUM_PATH")
	set(&c.Browser.CDPURL, "CHROME_CDP_URL")
	set(&c.Server.Addr, "HTTP_ADDR")
	set(&c.Log.Level, "LOG_LEVEL")
}

package model

import (
	"fmt"
	"strings"
	"unicode"
)

// Review 地点页上的一条评论
type Review struct {
	UserName   string   `json:"userName"`
	UserAvatar string   `json:"userAvatar"`
	UserURL    string   `json:"userUrl"`
	UserInfo   string   `json:"userInfo"` // 例如 "在地嚮導 · 19 則評論 · 930 張相片"
	Rating     string   `json:"rating"`   // 仅数字
	Time       string   `json:"time"`     // 页面上的相对时间文本，例如 "2 週前"
	Content    string   `json:"content"`
	Photos     []string `json:"photos"`
}

// PersonalReview 个人主页上的评论，作者已由页面限定，不含身份字段
type PersonalReview struct {
	Rating  string   `json:"rating"`
	Time    string   `json:"time"`
	Content string   `json:"content"`
	Photos  []string `json:"photos"`
}

// Personal 去掉作者身份字段
func (r Review) Personal() PersonalReview {
	photos := r.Photos
	if photos == nil {
		photos = []string{}
	}
	return PersonalReview{
		Rating:  r.Rating,
		Time:    r.Time,
		Content: r.Content,
		Photos:  photos,
	}
}

// FilteredReview 发送给 LLM 的精简评论，去除了身份信息
type FilteredReview struct {
	UserInfo   string `json:"userInfo"`
	Rating     string `json:"rating"`
	Time       string `json:"time"`
	Content    string `json:"content"`
	PhotoCount int    `json:"photoCount"`
}

// FilterReviews 将评论投影为分析输入，顺序不变
func FilterReviews(reviews []Review) []FilteredReview {
	out := make([]FilteredReview, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, FilteredReview{
			UserInfo:   stripSpace(r.UserInfo),
			Rating:     r.Rating,
			Time:       r.Time,
			Content:    r.Content,
			PhotoCount: len(r.Photos),
		})
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// RadarMetrics 雷达图五个维度，0-100，越高越可疑
type RadarMetrics struct {
	LanguageArtificialness int `json:"languageArtificialness"`
	Irrelevance            int `json:"irrelevance"`
	UnusualCommentLength   int `json:"unusualCommentLength"`
	PostingTimeAnomalies   int `json:"postingTimeAnomalies"`
	UserInactivity         int `json:"userInactivity"`
}

// Analysis 评论可疑度分析结果
type Analysis struct {
	SuspicionScore int          `json:"suspicionScore"`
	Findings       []string     `json:"findings"`
	RadarData      RadarMetrics `json:"radarData"`
}

// PlaceResult 地点评论抓取结果
type PlaceResult struct {
	PlaceName        string   `json:"placeName"`
	TotalRating      string   `json:"totalRating"`
	TotalReviewCount string   `json:"totalReviewCount"`
	Reviews          []Review `json:"reviews"`
}

// ProfileResult 个人主页评论抓取结果
type ProfileResult struct {
	ProfileID string           `json:"profileId,omitempty"`
	Reviews   []PersonalReview `json:"reviews"`
}

// Provider LLM 提供方
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ParseProvider 解析提供方，前端历史上用 "gpt" 表示 OpenAI，空值默认 OpenAI
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "openai", "gpt":
		return ProviderOpenAI, nil
	case "gemini":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown provider: %s", s)
	}
}

// Sentiment 生成评论的目标情绪
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid 是否为支持的情绪
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// SortOrder 评论排序方式
type SortOrder string

const (
	SortRelevant SortOrder = "relevant"
	SortNewest   SortOrder = "newest"
	SortHighest  SortOrder = "highest"
	SortLowest   SortOrder = "lowest"
)

// ParseSortOrder 解析排序，空值为默认的 relevant
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortRelevant, nil
	case SortRelevant, SortNewest, SortHighest, SortLowest:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order: %s", s)
	}
}

// SentimentSort 生成评论时按情绪挑选地点评论的排序
func SentimentSort(s Sentiment) SortOrder {
	switch s {
	case SentimentNegative:
		return SortLowest
	case SentimentPositive:
		return SortHighest
	default:
		return SortRelevant
	}
}

const (
	MaxPersonalSamples = 5
	MaxPlaceSamples    = 3
)

// GenerationRequest 评论生成请求
type GenerationRequest struct {
	PersonalReviews []string  `json:"personalReviews"`
	PlaceReviews    []string  `json:"placeReviews"`
	PersonalNotes   string    `json:"personalNotes"`
	Sentiment       Sentiment `json:"sentiment"`
	Provider        Provider  `json:"provider"`
	Temperature     float32   `json:"temperature"`
}

// Validate 校验枚举与样本数量
func (r *GenerationRequest) Validate() error {
	if !r.Sentiment.Valid() {
		return fmt.Errorf("invalid sentiment: %q", r.Sentiment)
	}
	if _, err := ParseProvider(string(r.Provider)); err != nil {
		return err
	}
	if len(r.PersonalReviews) > MaxPersonalSamples {
		return fmt.Errorf("too many personal reviews: %d > %d", len(r.PersonalReviews), MaxPersonalSamples)
	}
	if len(r.PlaceReviews) > MaxPlaceSamples {
		return fmt.Errorf("too many place reviews: %d > %d", len(r.PlaceReviews), MaxPlaceSamples)
	}
	return nil
}

// SampleContents 取非空内容的前 limit 条
func SampleContents[T interface{ GetContent() string }](items []T, limit int) []string {
	out := make([]string, 0, limit)
	for _, it := range items {
		if len(out) >= limit {
			break
		}
		if c := it.GetContent(); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func (r Review) GetContent() string         { return r.Content }
func (r PersonalReview) GetContent() string { return r.Content }

package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/llm"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

const systemPrompt = `你是一位專業的評論分析專家，擅長偵測可疑的評論模式。請使用以下指標來分析評論：
- Language Artificialness: 0-100, higher = less natural and more artificial.
- Irrelevance: 0-100, higher = less relevant to the location.
- Unusual Comment Length: 0-100, higher = abnormally short or long.
- Posting Time Anomalies: 0-100, higher = irregular timing.
- User Inactivity: 0-100, higher = limited user activity or engagement.

特別注意：
- 如果評論提及「送」、「贈」、「抽獎」、「打卡」等促銷行為，請顯著提高可疑分數（例如 +50%）。
- 如果評論非上述促銷行為且為在地嚮導的評論，請降低 30-50% 的可疑分數。`

const userPromptTpl = `分析Google Maps上「%s」的評論是否有洗評論的可能性。以下是該地點依序由新到舊的評論資料，請考慮發文時間、寫作風格、照片數量、評分模式、使用者資訊（是否為在地嚮導、過去評論的數量和過去上傳的照片數量）和內容品質。
Reviews: %s

Reply in concise JSON:
{
  "suspicionScore": number,
  "findings": string[],
  "radarData": {
    "languageArtificialness": number,
    "irrelevance": number,
    "unusualCommentLength": number,
    "postingTimeAnomalies": number,
    "userInactivity": number
  }
}`

// radarFields 雷达图字段及其描述，顺序即展示顺序
var radarFields = []struct {
	Name, Description string
}{
	{"languageArtificialness", "Language artificialness of the review, 0-100, higher = less natural and more artificial."},
	{"irrelevance", "Irrelevance of the review, 0-100, higher = less relevant to the location."},
	{"unusualCommentLength", "Unusual comment length of the review, 0-100, higher = abnormally short or long."},
	{"postingTimeAnomalies", "Posting time anomalies of the review, 0-100, higher = irregular timing."},
	{"userInactivity", "User inactivity of the review, 0-100, higher = limited user activity or engagement."},
}

// SystemPrompt 分析师角色与打分规则
func SystemPrompt() string { return systemPrompt }

// UserPrompt 嵌入地点名称和评论，reviews 需按由新到旧排列
func UserPrompt(placeName string, reviews []model.FilteredReview) (string, error) {
	if reviews == nil {
		reviews = []model.FilteredReview{}
	}
	data, err := json.Marshal(reviews)
	if err != nil {
		return "", fmt.Errorf("marshal reviews: %w", err)
	}
	return fmt.Sprintf(userPromptTpl, placeName, data), nil
}

// ResponseSchema 结构化输出约束，与 Validate 检查的形状一致
func ResponseSchema() *llm.Schema {
	radar := &llm.Schema{Type: llm.TypeObject, Properties: map[string]*llm.Schema{}}
	for _, f := range radarFields {
		radar.Properties[f.Name] = &llm.Schema{Type: llm.TypeInteger, Description: f.Description}
		radar.Required = append(radar.Required, f.Name)
	}
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"suspicionScore": {
				Type:        llm.TypeInteger,
				Description: "Suspicion score of the review, 0-100, higher = more suspicious.",
			},
			"findings": {
				Type:        llm.TypeArray,
				Items:       &llm.Schema{Type: llm.TypeString},
				Description: "Findings of the review",
			},
			"radarData": radar,
		},
		Required: []string{"suspicionScore", "findings", "radarData"},
	}
}

package generation

import (
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

const systemPrompt = "你是一個擅長模仿用戶的專業的評論家。"

const userPromptTpl = `你是一個擅長模仿用戶的專業的評論家。請根據以下資訊，生成一篇評論：

1. 用戶過往的評論風格：
%s

2. 其他人對這個地方的評論（參考用）：
%s

3. 用戶的個人見解：
%s

4. 用戶給予的情緒：%s

請生成一篇符合以下要求的評論：
1. 完全依照用戶的寫作風格和用詞習慣
2. 必須完全將個人見解與寫作風格和用詞習慣融入評論中
3. 評論長度約150-300字`

// SystemPrompt 模仿用户写作风格的评论家
func SystemPrompt() string { return systemPrompt }

// UserPrompt 拼入历史评论、地点评论、个人见解和情绪
func UserPrompt(req model.GenerationRequest) (string, error) {
	personal, err := jsonList(req.PersonalReviews)
	if err != nil {
		return "", err
	}
	place, err := jsonList(req.PlaceReviews)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(userPromptTpl, personal, place, req.PersonalNotes, req.Sentiment), nil
}

func jsonList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal samples: %w", err)
	}
	return string(b), nil
}

package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// Validate 检查回复形状并转换为 Analysis。
// 不是 JSON 返回 ErrParse，字段缺失、类型不符或分数超出 0-100 返回 ErrValidation
func Validate(data []byte) (*model.Analysis, error) {
	if len(data) == 0 {
		return nil, model.ErrEmptyResponse
	}
	if !gjson.ValidBytes(data) {
		return nil, model.Wrap(model.ErrParse, "", errors.New("response is not valid JSON"))
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, invalid("response is not an object")
	}

	total, err := score(root, "suspicionScore")
	if err != nil {
		return nil, err
	}

	findings := root.Get("findings")
	if !findings.IsArray() {
		return nil, invalid("findings must be an array")
	}
	out := &model.Analysis{SuspicionScore: total, Findings: []string{}}
	for _, f := range findings.Array() {
		if f.Type != gjson.String {
			return nil, invalid("findings must contain only strings")
		}
		out.Findings = append(out.Findings, f.Str)
	}

	radar := root.Get("radarData")
	if !radar.IsObject() {
		return nil, invalid("radarData must be an object")
	}
	targets := map[string]*int{
		"languageArtificialness": &out.RadarData.LanguageArtificialness,
		"irrelevance":            &out.RadarData.Irrelevance,
		"unusualCommentLength":   &out.RadarData.UnusualCommentLength,
		"postingTimeAnomalies":   &out.RadarData.PostingTimeAnomalies,
		"userInactivity":         &out.RadarData.UserInactivity,
	}
	for _, f := range radarFields {
		v, err := score(radar, f.Name)
		if err != nil {
			return nil, err
		}
		*targets[f.Name] = v
	}
	return out, nil
}

func score(obj gjson.Result, name string) (int, error) {
	v := obj.Get(name)
	if !v.Exists() {
		return 0, invalid(name + " is missing")
	}
	if v.Type != gjson.Number {
		return 0, invalid(name + " must be a number")
	}
	f := v.Float()
	if f < 0 || f > 100 {
		return 0, invalid(fmt.Sprintf("%s out of range: %v", name, f))
	}
	return int(math.Round(f)), nil
}

func invalid(msg string) error {
	return model.Wrap(model.ErrValidation, "", errors.New(msg))
}

package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterReviews(t *testing.T) {
	reviews := []Review{
		{
			UserName:   "王小明",
			UserAvatar: "https://lh3.googleusercontent.com/a/1",
			UserURL:    "https://www.google.com/maps/contrib/1",
			UserInfo:   "在地嚮導 · 19 則評論 · 930 張相片",
			Rating:     "5",
			Time:       "2 週前",
			Content:    "好吃",
			Photos:     []string{"a", "b"},
		},
		{UserInfo: "1 則評論", Rating: "1", Time: "1 天前"},
	}

	out := FilterReviews(reviews)
	require.Len(t, out, 2)
	assert.Equal(t, "在地嚮導·19則評論·930張相片", out[0].UserInfo)
	assert.Equal(t, 2, out[0].PhotoCount)
	assert.Equal(t, "1則評論", out[1].UserInfo)
	assert.Equal(t, 0, out[1].PhotoCount)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "王小明")
	assert.NotContains(t, string(data), "userName")
	assert.NotContains(t, string(data), "userUrl")
	assert.NotContains(t, string(data), "userAvatar")
}

func TestFilterReviewsEmpty(t *testing.T) {
	out := FilterReviews(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestPersonalDropsIdentity(t *testing.T) {
	p := Review{UserName: "x", Rating: "4", Content: "ok"}.Personal()
	assert.Equal(t, "4", p.Rating)
	assert.NotNil(t, p.Photos)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":"4","time":"","content":"ok","photos":[]}`, string(data))
}

func TestParseProvider(t *testing.T) {
	cases := map[string]Provider{
		"":       ProviderOpenAI,
		"gpt":    ProviderOpenAI,
		"OpenAI": ProviderOpenAI,
		"gemini": ProviderGemini,
	}
	for in, want := range cases {
		got, err := ParseProvider(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseProvider("claude")
	assert.Error(t, err)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortRelevant, o)

	o, err = ParseSortOrder("Newest")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, o)

	_, err = ParseSortOrder("oldest")
	assert.Error(t, err)
}

func TestSentimentSort(t *testing.T) {
	assert.Equal(t, SortHighest, SentimentSort(SentimentPositive))
	assert.Equal(t, SortLowest, SentimentSort(SentimentNegative))
	assert.Equal(t, SortRelevant, SentimentSort(SentimentNeutral))
}

func TestGenerationRequestValidate(t *testing.T) {
	req := GenerationRequest{Sentiment: SentimentPositive, Provider: ProviderGemini}
	assert.NoError(t, req.Validate())

	bad := req
	bad.Sentiment = "angry"
	assert.Error(t, bad.Validate())

	bad = req
	bad.PersonalReviews = make([]string, MaxPersonalSamples+1)
	assert.Error(t, bad.Validate())

	bad = req
	bad.PlaceReviews = make([]string, MaxPlaceSamples+1)
	assert.Error(t, bad.Validate())
}

func TestSampleContents(t *testing.T) {
	reviews := []Review{{Content: "a"}, {Content: ""}, {Content: "b"}, {Content: "c"}, {Content: "d"}}
	assert.Equal(t, []string{"a", "b", "c"}, SampleContents(reviews, MaxPlaceSamples))

	personal := []PersonalReview{{Content: ""}}
	got := SampleContents(personal, MaxPersonalSamples)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWrapKeepsReason(t *testing.T) {
	cause := fmt.Errorf("selector timed out")
	err := Wrap(ErrControlNotFound, "reviews tab not found", cause)

	assert.True(t, errors.Is(err, ErrControlNotFound))
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "reviews tab not found", err.Message)
	assert.Equal(t, "page control not found", ErrControlNotFound.Message)
	assert.ErrorIs(t, err, cause)
}

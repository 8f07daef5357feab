package scraper

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// Field 从一条评论节点中取出一个字段，取不到时填占位值而不是报错
type Field func(id string, node *goquery.Selection, r *model.Review)

var (
	nonDigitRe  = regexp.MustCompile(`\D`)
	styleURLRe  = regexp.MustCompile(`url\("([^"]+)"\)`)
	placeFields = []Field{RatingField, TimeField, ContentField, AuthorField, AvatarField, PhotosField}
	// 个人主页上作者固定，不取身份字段
	personalFields = []Field{RatingField, TimeField, ContentField, PhotosField}
)

const anonymous = "Anonymous"

func ratingNode(node *goquery.Selection) *goquery.Selection {
	return node.Find(`span[role="img"]`).First()
}

// RatingField 星级图标 aria-label 中的数字
func RatingField(_ string, node *goquery.Selection, r *model.Review) {
	label := ratingNode(node).AttrOr("aria-label", "")
	r.Rating = nonDigitRe.ReplaceAllString(label, "")
	if r.Rating == "" {
		r.Rating = "0"
	}
}

// TimeField 紧跟在星级后面的相对时间
func TimeField(_ string, node *goquery.Selection, r *model.Review) {
	r.Time = ratingNode(node).Next().Text()
}

// ContentField 只取正文容器的第一个子节点，不含展开后的翻译
func ContentField(id string, node *goquery.Selection, r *model.Review) {
	wrapper := node.Find(`div[id]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == id
	}).First()
	r.Content = wrapper.Contents().First().Text()
}

// AuthorField 同一 review id 的第二个按钮是作者信息
func AuthorField(id string, node *goquery.Selection, r *model.Review) {
	btn := node.Find(`button[data-review-id]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("data-review-id", "") == id
	}).Eq(1)

	r.UserURL = btn.AttrOr("data-href", "")
	divs := btn.Find("div")
	r.UserName = divs.Eq(0).Text()
	if r.UserName == "" {
		r.UserName = anonymous
	}
	r.UserInfo = divs.Eq(1).Text()
}

// AvatarField 头像按钮里第一个子元素的 src
func AvatarField(_ string, node *goquery.Selection, r *model.Review) {
	btn := node.Find(`button[aria-label*="的相片"], button[aria-label*="Photo of"]`).First()
	r.UserAvatar = btn.Children().First().AttrOr("src", "")
}

// PhotosField 照片按钮 background-image 中的地址，没有匹配的按钮跳过
func PhotosField(_ string, node *goquery.Selection, r *model.Review) {
	photos := []string{}
	node.Find(`button[aria-label*="相片"], button[aria-label*="Photo"]`).Each(func(_ int, s *goquery.Selection) {
		if m := styleURLRe.FindStringSubmatch(s.AttrOr("style", "")); m != nil {
			photos = append(photos, m[1])
		}
	})
	r.Photos = photos
}

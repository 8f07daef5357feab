package scraper

import (
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

// 页面上的选择器，中英文界面都要覆盖
const (
	reviewsTabSelector = `button[role="tab"][aria-label*="的評論"], button[role="tab"][aria-label*="Reviews for"]`
	sortButtonSelector = `button[aria-label="排序評論"][data-value="排序"], button[aria-label="Sort reviews"][data-value="Sort"]`
	sortMenuSelector   = `div[role="menu"][id="action-menu"]`
	sortItemSelector   = `div[role="menu"][id="action-menu"] div[role="menuitemradio"]`
	summarySelector    = `div[role="img"][aria-label*="顆星"], div[role="img"][aria-label*="stars"]`
	reviewSelector     = `div[aria-label][data-review-id]`
	seeMoreSelector    = `button[aria-label="顯示更多"], button[aria-label="See more"]`
	snapshotSelector   = `body`
)

// Container 可滚动的评论列表
type Container string

const (
	// PlaceContainer 地点页主面板的第二个子元素
	PlaceContainer Container = `document.querySelector('div[role="main"]')?.children[1]`
	// ProfileContainer 个人主页的评论 tab
	ProfileContainer Container = `document.querySelector('div[role="main"] div[role="tabpanel"]')`
)

// sortLabels 排序菜单项的中英文文字
var sortLabels = map[model.SortOrder][2]string{
	model.SortNewest:  {"最新", "Newest"},
	model.SortHighest: {"評分最高", "Highest rating"},
	model.SortLowest:  {"評分最低", "Lowest rating"},
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func clickScript(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.click();
	return true;
})()`, jsString(selector))
}

func scrollIntoViewScript(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.scrollIntoView({behavior: "instant", block: "center"});
	return true;
})()`, jsString(selector))
}

func clickAllScript(selector string) string {
	return fmt.Sprintf(`(() => {
	const els = document.querySelectorAll(%s);
	els.forEach((el) => el.click());
	return els.length;
})()`, jsString(selector))
}

func sortItemScript(zh, en string) string {
	return fmt.Sprintf(`(() => {
	for (const item of document.querySelectorAll(%s)) {
		const text = item.textContent || "";
		if (text.includes(%s) || text.includes(%s)) {
			item.click();
			return true;
		}
	}
	return false;
})()`, jsString(sortItemSelector), jsString(zh), jsString(en))
}

func summaryScript() string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	const count = el ? el.nextElementSibling : null;
	return {
		totalRating: (el && el.getAttribute("aria-label")) || "No rating",
		totalReviewCount: (count && count.textContent) || "0",
	};
})()`, jsString(summarySelector))
}

func scrollScript(c Container) string {
	return fmt.Sprintf(`(() => {
	const c = %s;
	if (!c) return false;
	c.scrollTo(0, c.scrollHeight);
	return true;
})()`, string(c))
}

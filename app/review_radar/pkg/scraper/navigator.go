package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/browser"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

var (
	placeNameRe = regexp.MustCompile(`place/([^/@]+)`)
	profileIDRe = regexp.MustCompile(`contrib/(\d+)`)
)

// Navigator 负责短链解析和页面打开
type Navigator struct {
	client          *http.Client
	canonicalPrefix string
	language        string
	resolveTimeout  time.Duration
	navTimeout      time.Duration
}

// NewNavigator client 为空时使用 http.DefaultClient，默认会跟随重定向
func NewNavigator(cfg config.ScrapeConfig, client *http.Client) *Navigator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Navigator{
		client:          client,
		canonicalPrefix: cfg.CanonicalPrefix,
		language:        cfg.Language,
		resolveTimeout:  cfg.ResolveTimeout.Std(),
		navTimeout:      cfg.NavigationTimeout.Std(),
	}
}

// ResolveShortURL 用 HEAD 请求跟随重定向，返回最终的地图地址
func (n *Navigator) ResolveShortURL(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", model.Wrap(model.ErrInvalidURL, "Missing Google Maps short URL", nil)
	}
	if n.resolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.resolveTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, raw, nil)
	if err != nil {
		return "", model.Wrap(model.ErrInvalidURL, "", err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return "", model.Wrap(model.ErrInvalidURL, "", err)
	}
	resp.Body.Close()

	final := resp.Request.URL.String()
	if !strings.HasPrefix(final, n.canonicalPrefix) {
		return "", model.Wrap(model.ErrInvalidURL, "", errors.New("resolved to "+final))
	}
	return final, nil
}

// Open 打开页面，只等 DOMContentLoaded
func (n *Navigator) Open(ctx context.Context, page browser.Page, rawURL string) error {
	target, err := withLanguage(rawURL, n.language)
	if err != nil {
		return model.Wrap(model.ErrInvalidURL, "", err)
	}
	ctx, cancel := context.WithTimeout(ctx, n.navTimeout)
	defer cancel()
	if err := page.Navigate(ctx, target); err != nil {
		var navErr *browser.NavigationError
		switch {
		case errors.Is(err, context.Canceled):
			return err
		case errors.As(err, &navErr):
			return model.Wrap(model.ErrInvalidURL, "page could not be loaded", err)
		default:
			return model.Wrap(model.ErrTimeout, "navigation did not reach DOMContentLoaded", err)
		}
	}
	return nil
}

func withLanguage(rawURL, lang string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("not an absolute url: " + rawURL)
	}
	if lang != "" {
		q := u.Query()
		q.Set("hl", lang)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// PlaceName 从地点地址中取出名称
func PlaceName(u string) (string, error) {
	m := placeNameRe.FindStringSubmatch(u)
	if m == nil {
		return "", model.ErrPlaceNotFound
	}
	name := strings.ReplaceAll(m[1], "+", " ")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name, nil
}

// ProfileID 从个人主页地址中取出贡献者 ID
func ProfileID(u string) (string, error) {
	m := profileIDRe.FindStringSubmatch(u)
	if m == nil {
		return "", model.Wrap(model.ErrPlaceNotFound, "Could not extract profile id from URL", nil)
	}
	return m[1], nil
}

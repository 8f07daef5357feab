package scraper

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/browser"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/model"
)

func newMapsServer(t *testing.T) (*httptest.Server, config.ScrapeConfig) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/maps/place/%E9%BC%8E%E6%B3%B0%E8%B1%90+%E4%BF%A1%E7%BE%A9%E5%BA%97/@25.03,121.5", http.StatusFound)
	})
	mux.HandleFunc("/elsewhere", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/search?q=x", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := fastConfig()
	cfg.CanonicalPrefix = srv.URL + "/maps/"
	return srv, cfg
}

func TestResolveShortURL(t *testing.T) {
	srv, cfg := newMapsServer(t)
	n := NewNavigator(cfg, srv.Client())

	got, err := n.ResolveShortURL(context.Background(), srv.URL+"/short")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, cfg.CanonicalPrefix), got)

	name, err := PlaceName(got)
	require.NoError(t, err)
	assert.Equal(t, "鼎泰豐 信義店", name)
}

func TestResolveShortURLRejects(t *testing.T) {
	srv, cfg := newMapsServer(t)
	n := NewNavigator(cfg, srv.Client())

	for _, u := range []string{"", "  ", srv.URL + "/elsewhere", "http://127.0.0.1:1/unreachable"} {
		_, err := n.ResolveShortURL(context.Background(), u)
		require.Error(t, err, u)
		assert.True(t, errors.Is(err, model.ErrInvalidURL), u)
	}
}

func TestOpenSetsLanguage(t *testing.T) {
	n := NewNavigator(fastConfig(), nil)
	page := &fakePage{}

	require.NoError(t, n.Open(context.Background(), page, "https://www.google.com/maps/place/X/@1,2?hl=en&entry=ttu"))
	require.Len(t, page.navigated, 1)
	assert.Contains(t, page.navigated[0], "hl=zh-TW")
	assert.NotContains(t, page.navigated[0], "hl=en")
	assert.Contains(t, page.navigated[0], "entry=ttu")
}

func TestOpenTimeout(t *testing.T) {
	n := NewNavigator(fastConfig(), nil)
	page := &fakePage{navigateErr: context.DeadlineExceeded}

	err := n.Open(context.Background(), page, "https://www.google.com/maps/place/X")
	assert.True(t, errors.Is(err, model.ErrTimeout))
}

func TestOpenFailureReasons(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		reason string
	}{
		{"page error text", &browser.NavigationError{URL: "https://www.google.com/maps/place/X", Text: "net::ERR_NAME_NOT_RESOLVED"}, model.ReasonInvalidURL},
		{"deadline", context.DeadlineExceeded, model.ReasonTimeout},
		{"cdp failure", stderrors.New("websocket: close 1006"), model.ReasonTimeout},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := NewNavigator(fastConfig(), nil)
			err := n.Open(context.Background(), &fakePage{navigateErr: c.err}, "https://www.google.com/maps/place/X")
			require.Error(t, err)
			assert.Equal(t, c.reason, errors.Reason(err))
			assert.False(t, errors.Is(err, model.ErrBrowserLaunch))
		})
	}

	n := NewNavigator(fastConfig(), nil)
	err := n.Open(context.Background(), &fakePage{navigateErr: context.Canceled}, "https://www.google.com/maps/place/X")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaceName(t *testing.T) {
	name, err := PlaceName("https://www.google.com/maps/place/%E9%BC%8E%E6%B3%B0%E8%B1%90+%E4%BF%A1%E7%BE%A9%E5%BA%97/@25.03,121.5")
	require.NoError(t, err)
	assert.Equal(t, "鼎泰豐 信義店", name)

	name, err = PlaceName("https://www.google.com/maps/place/Blue+Bottle+Coffee@1,2")
	require.NoError(t, err)
	assert.Equal(t, "Blue Bottle Coffee", name)

	_, err = PlaceName("https://www.google.com/maps/search/coffee")
	assert.True(t, errors.Is(err, model.ErrPlaceNotFound))
}

func TestProfileID(t *testing.T) {
	id, err := ProfileID("https://www.google.com/maps/contrib/117458393285641286049/reviews?hl=zh-TW")
	require.NoError(t, err)
	assert.Equal(t, "117458393285641286049", id)

	_, err = ProfileID("https://www.google.com/maps/place/x")
	assert.Error(t, err)
}

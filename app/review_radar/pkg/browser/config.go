package browser

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
)

// Host 浏览器运行的宿主环境
type Host string

const (
	HostLocal      Host = "local"      // 开发机上安装的 Chrome
	HostServerless Host = "serverless" // 受限环境中打包的精简 chromium
	HostRemote     Host = "remote"     // 连接已在运行的 DevTools 端点
)

// Flag 传给浏览器的命令行参数
type Flag struct {
	Name  string
	Value interface{}
}

// LaunchOptions 启动参数，由 ResolveLaunchOptions 一次性确定
type LaunchOptions struct {
	Host      Host
	ExecPath  string
	CDPURL    string
	Headless  bool
	UserAgent string
	Flags     []Flag
}

var commonFlags = []Flag{
	{"no-sandbox", true},
	{"disable-setuid-sandbox", true},
	{"disable-dev-shm-usage", true},
	{"disable-accelerated-2d-canvas", true},
	{"disable-gpu", true},
	{"disable-extensions", true},
}

var serverlessFlags = []Flag{
	{"single-process", true},
	{"no-zygote", true},
	{"hide-scrollbars", true},
	{"mute-audio", true},
}

// DefaultExecPath 各平台 Chrome 的默认安装位置
func DefaultExecPath(goos string) string {
	switch goos {
	case "windows":
		return `C:\Program Files\Google\Chrome\Application\chrome.exe`
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	default:
		return "/usr/bin/google-chrome"
	}
}

// ResolveLaunchOptions 根据宿主环境选择浏览器路径与启动参数，goos 为空时取当前平台
func ResolveLaunchOptions(cfg config.BrowserConfig, goos string) (LaunchOptions, error) {
	if goos == "" {
		goos = runtime.GOOS
	}
	headless := true
	if cfg.Headless != nil {
		headless = *cfg.Headless
	}

	host := Host(strings.ToLower(strings.TrimSpace(cfg.Host)))
	if host == "" {
		host = HostLocal
	}

	opts := LaunchOptions{
		Host:      host,
		Headless:  headless,
		UserAgent: cfg.UserAgent,
	}
	switch host {
	case HostLocal:
		opts.ExecPath = cfg.ExecPath
		if opts.ExecPath == "" {
			opts.ExecPath = DefaultExecPath(goos)
		}
		opts.Flags = append(opts.Flags, commonFlags...)
	case HostServerless:
		if cfg.BundledBin == "" {
			return LaunchOptions{}, fmt.Errorf("serverless host requires browser.bundled_bin")
		}
		opts.ExecPath = cfg.BundledBin
		// 受限环境没有用户命名空间，必须关闭沙箱
		opts.Headless = true
		opts.Flags = append(opts.Flags, commonFlags...)
		opts.Flags = append(opts.Flags, serverlessFlags...)
	case HostRemote:
		if cfg.CDPURL == "" {
			return LaunchOptions{}, fmt.Errorf("remote host requires browser.cdp_url")
		}
		opts.CDPURL = cfg.CDPURL
	default:
		return LaunchOptions{}, fmt.Errorf("unknown browser host: %s", cfg.Host)
	}
	return opts, nil
}

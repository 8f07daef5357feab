package server

import (
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/service"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
)

// NewHTTPServer 创建 HTTP 服务并注册路由
func NewHTTPServer(c *config.Config, s *service.ReviewService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.ErrorEncoder(errorEncoder),
	}
	if c.Server.Addr != "" {
		opts = append(opts, http.Address(c.Server.Addr))
	}
	// kratos 默认 1s 超时，抓取需要更久
	if c.Server.Timeout != "" {
		if d, err := time.ParseDuration(c.Server.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	RegisterReviewHTTPServer(srv, s)
	srv.Handle("/metrics", promhttp.Handler())
	return srv
}

// errorBody 与前端约定的错误格式
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// errorEncoder 输出 {"error": "..."}，生成失败时额外带上提供方原始信息
func errorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	body := errorBody{Error: se.Message, Reason: se.Reason}
	if detail, ok := se.Metadata["error"]; ok {
		body.Message = se.Message
		body.Error = detail
	}
	codec, _ := http.CodecForRequest(r, "Accept")
	data, merr := codec.Marshal(body)
	if merr != nil {
		w.WriteHeader(nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/"+codec.Name())
	w.WriteHeader(int(se.Code))
	_, _ = w.Write(data)
}

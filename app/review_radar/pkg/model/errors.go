package model

import (
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

// 错误原因，errors.Is 按 code + reason 匹配，WithCause 包装后仍可识别
const (
	ReasonBrowserLaunch   = "BROWSER_LAUNCH_FAILED"
	ReasonInvalidURL      = "INVALID_URL"
	ReasonPlaceNotFound   = "PLACE_NOT_FOUND"
	ReasonControlNotFound = "CONTROL_NOT_FOUND"
	ReasonTimeout         = "STEP_TIMEOUT"
	ReasonEmptyResponse   = "EMPTY_RESPONSE"
	ReasonParse           = "PARSE_FAILED"
	ReasonValidation      = "VALIDATION_FAILED"
	ReasonAnalysis        = "ANALYSIS_FAILED"
	ReasonGeneration      = "GENERATION_FAILED"
	ReasonBadRequest      = "BAD_REQUEST"
)

var (
	ErrBrowserLaunch   = errors.New(http.StatusInternalServerError, ReasonBrowserLaunch, "failed to launch browser")
	ErrInvalidURL      = errors.New(http.StatusBadRequest, ReasonInvalidURL, "Invalid Google Maps URL")
	ErrPlaceNotFound   = errors.New(http.StatusBadRequest, ReasonPlaceNotFound, "Could not extract place name from URL")
	ErrControlNotFound = errors.New(http.StatusInternalServerError, ReasonControlNotFound, "page control not found")
	ErrTimeout         = errors.New(http.StatusGatewayTimeout, ReasonTimeout, "page step timed out")
	ErrEmptyResponse   = errors.New(http.StatusBadGateway, ReasonEmptyResponse, "empty response from provider")
	ErrParse           = errors.New(http.StatusBadGateway, ReasonParse, "invalid JSON response from provider")
	ErrValidation      = errors.New(http.StatusBadGateway, ReasonValidation, "invalid response format from provider")
	ErrAnalysis        = errors.New(http.StatusInternalServerError, ReasonAnalysis, "Failed to analyze reviews")
	ErrGeneration      = errors.New(http.StatusInternalServerError, ReasonGeneration, "Error generating review")
)

// BadRequest 请求参数错误
func BadRequest(message string) *errors.Error {
	return errors.BadRequest(ReasonBadRequest, message)
}

// Wrap 以 base 的 code/reason 包装 cause，message 为空时沿用 base 的
func Wrap(base *errors.Error, message string, cause error) *errors.Error {
	e := errors.Clone(base)
	if message != "" {
		e.Message = message
	}
	return e.WithCause(cause)
}

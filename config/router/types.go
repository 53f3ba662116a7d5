package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what every handler returns; createHandler renders it.
type ServiceResult struct {
	StatusCode int    `json:"-"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	// DataKey names the payload field in the body. Empty means "data".
	DataKey string `json:"-"`
	// Raw renders Data as the entire body, without the message envelope.
	Raw bool `json:"-"`
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() any {
	if result.Raw {
		return result.Data
	}

	body := gin.H{"message": result.Message}
	if result.Data != nil {
		key := result.DataKey
		if key == "" {
			key = "data"
		}
		body[key] = result.Data
	}
	return body
}

// WithDataKey renames the payload field, e.g. {"message": ..., "subscriber": ...}.
func (result *ServiceResult) WithDataKey(key string) *ServiceResult {
	result.DataKey = key
	return result
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}

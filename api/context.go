package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shitamachi/fcm-bridge/log"
	"go.uber.org/zap"
)

// Context is what a handler sees of one request.
type Context struct {
	*AppContext
	Gin    *gin.Context
	Writer http.ResponseWriter
	Req    *http.Request
	Logger *zap.Logger
}

type ResponseData = interface{}

type ResponseEntry struct {
	Status    int          `json:"status"`
	Message   string       `json:"message"`
	Data      ResponseData `json:"data,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

type Response struct {
	HttpCode int `json:"-"`
	ResponseEntry
}

type ResponseOptions = []ResponseOption

type ResponseOption interface {
	apply(r *Response)
}

type optionFunc func(r *Response)

func (f optionFunc) apply(r *Response) {
	f(r)
}

func HttpCode(code int) ResponseOption {
	return optionFunc(func(r *Response) {
		r.HttpCode = code
	})
}

func Status(status int) ResponseOption {
	return optionFunc(func(r *Response) {
		r.Status = status
	})
}

func Message(message string) ResponseOption {
	return optionFunc(func(r *Response) {
		r.Message = message
	})
}

func Data(data ResponseData) ResponseOption {
	return optionFunc(func(r *Response) {
		r.Data = data
	})
}

// WrapperGinHandleFunc adapts f to gin. The request context carries a logger
// tagged with the route.
func (c *Context) WrapperGinHandleFunc(f func(ctx *Context) ResponseOptions) gin.HandlerFunc {
	return func(gc *gin.Context) {
		logger := c.AppContext.Logger.With(
			zap.String("method", gc.Request.Method),
			zap.String("path", gc.FullPath()),
		)
		req := gc.Request.WithContext(log.SetLoggerToContext(gc.Request.Context(), logger))
		gc.Request = req

		response := NewResponse(f(&Context{
			AppContext: c.AppContext,
			Gin:        gc,
			Writer:     gc.Writer,
			Req:        req,
			Logger:     logger,
		}))
		gc.JSON(response.HttpCode, response)
	}
}

func NewResponse(opts []ResponseOption) *Response {
	r := Response{HttpCode: http.StatusOK}
	for _, opt := range opts {
		opt.apply(&r)
	}
	if r.Status == 0 {
		r.Status = r.HttpCode
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().Unix()
	}
	return &r
}

func New(code, status int, message string, data ResponseData) []ResponseOption {
	return []ResponseOption{
		HttpCode(code),
		Status(status),
		Message(message),
		Data(data),
	}
}

func Ok(data ResponseData) []ResponseOption {
	return []ResponseOption{
		HttpCode(http.StatusOK),
		Status(http.StatusOK),
		Message("ok"),
		Data(data),
	}
}

func Accepted(data ResponseData) []ResponseOption {
	return New(http.StatusAccepted, http.StatusAccepted, "accepted", data)
}

func Error(code int, message string) []ResponseOption {
	return []ResponseOption{
		HttpCode(code),
		Status(code),
		Message(message),
	}
}

func ErrorWithOpts(httpCode int, opts ...ResponseOption) []ResponseOption {
	return append(opts, HttpCode(httpCode))
}

func (c *Context) GetBody() ([]byte, error) {
	return io.ReadAll(c.Req.Body)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shitamachi/fcm-bridge/api"
)

type HealthResp struct {
	Configured bool   `json:"configured"`
	Redis      string `json:"redis,omitempty"`
}

func Health(c *api.Context) api.ResponseOptions {
	resp := HealthResp{Configured: c.Registrar.Configured()}
	if c.RedisClient != nil {
		ctx, cancel := context.WithTimeout(c.Req.Context(), time.Second)
		defer cancel()
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			resp.Redis = err.Error()
			return api.New(http.StatusServiceUnavailable, http.StatusServiceUnavailable, "redis unreachable", resp)
		}
		resp.Redis = "ok"
	}
	return api.Ok(resp)
}

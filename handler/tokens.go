package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/shitamachi/fcm-bridge/api"
)

// GetTokens godoc
// @Summary cached and live token pair
// @Produce json
// @Success 200 {object} api.ResponseEntry
// @Router /v1/tokens [get]
func GetTokens(c *api.Context) api.ResponseOptions {
	return api.Ok(c.Manager.Tokens(c.Req.Context()))
}

// SubscribeTopic godoc
// @Summary subscribe this installation to a topic
// @Accept json
// @Produce json
// @Param req body TopicReq true "topic"
// @Success 202 {object} api.ResponseEntry
// @Router /v1/topics/subscribe [post]
func SubscribeTopic(c *api.Context) api.ResponseOptions {
	return manageTopic(c, c.Manager.Subscribe)
}

// UnsubscribeTopic godoc
// @Summary unsubscribe this installation from a topic
// @Accept json
// @Produce json
// @Param req body TopicReq true "topic"
// @Success 202 {object} api.ResponseEntry
// @Router /v1/topics/unsubscribe [post]
func UnsubscribeTopic(c *api.Context) api.ResponseOptions {
	return manageTopic(c, c.Manager.Unsubscribe)
}

// manageTopic only queues the request, the outcome shows up in the logs.
func manageTopic(c *api.Context, op func(topic string)) api.ResponseOptions {
	var req TopicReq
	body, err := c.GetBody()
	if err != nil {
		return api.ErrorWithOpts(http.StatusInternalServerError)
	}
	if err = jsoniter.Unmarshal(body, &req); err != nil {
		return api.ErrorWithOpts(http.StatusBadRequest, api.Message("can not parse request body"))
	}
	topic, err := ValidateTopicReq(&req)
	if err != nil {
		return api.Error(http.StatusBadRequest, err.Error())
	}

	op(topic)
	return api.Accepted(map[string]string{"topic": topic})
}

package config_entries

type MqConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// stream receiving TokenChangedEvent entries
	TokenChangedStream string `json:"token_changed_stream" yaml:"token_changed_stream"`
	// stream receiving PushReceivedEvent entries
	PushReceivedStream string `json:"push_received_stream" yaml:"push_received_stream"`
	// stream this process consumes subscribe/unsubscribe commands from
	TopicCommandStream string `json:"topic_command_stream" yaml:"topic_command_stream"`
	GroupName          string `json:"group_name" yaml:"group_name"`
	Concurrency        int    `json:"concurrency" yaml:"concurrency"`
	StreamMaxLength    int64  `json:"stream_max_length" yaml:"stream_max_length"`
	// 重新恢复消息的时间间隔, 单位 ms
	RecoverMessageDuration int `json:"recover_message_duration" yaml:"recover_message_duration"`
	MaxRetryCount          int `json:"max_retry_count" yaml:"max_retry_count"`
}

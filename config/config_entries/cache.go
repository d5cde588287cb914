package config_entries

type CacheConfig struct {
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db"`
	RedisPassword string `json:"redis_password" yaml:"redis_password"`
	ReadTimeout   int    `json:"read_timeout" yaml:"read_timeout"`   // seconds
	WriteTimeout  int    `json:"write_timeout" yaml:"write_timeout"` // seconds
	// prefix prepended to every cached token key, e.g. "fcm_bridge:"
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

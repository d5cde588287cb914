package config_entries

type StoreDriver = string

const (
	FileStore   StoreDriver = "file"
	MemoryStore StoreDriver = "memory"
	RedisStore  StoreDriver = "redis"
	MySQLStore  StoreDriver = "mysql"
)

type StoreConfig struct {
	Driver StoreDriver `json:"driver" yaml:"driver"`
	// used by the file driver
	FilePath string `json:"file_path" yaml:"file_path"`
}

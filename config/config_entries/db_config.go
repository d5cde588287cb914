package config_entries

import "fmt"

type DBConfigItem struct {
	Addr     string `json:"addr" yaml:"addr"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	DB       string `json:"db" yaml:"db"`
	// DSN, when set, is used verbatim and the fields above are ignored
	DSN string `json:"dsn" yaml:"dsn"`
}

// GetDSN builds a go-sql-driver/mysql data source name.
//
// username:password@tcp(127.0.0.1:3306)/db_name?checkConnLiveness=false&loc=Local&parseTime=true&readTimeout=1s&timeout=3s&writeTimeout=1s
func (c DBConfigItem) GetDSN() string {
	if len(c.DSN) > 0 {
		return c.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?checkConnLiveness=false&loc=Local&parseTime=true&readTimeout=1s&timeout=3s&writeTimeout=1s",
		c.User, c.Password, c.Addr, c.Port, c.DB,
	)
}

package config

// Config 服务核心配置
type Config struct {
	Mode     string `yaml:"mode"`      // dev / release
	HTTPPort int    `yaml:"http_port"` // HTTP监听端口
	LogLevel string `yaml:"log_level"` // debug / info / warn / error
	Database struct {
		Type         string `yaml:"type"` // sqlite / mysql / postgres
		DSN          string `yaml:"dsn"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{
		Mode:     "dev",
		HTTPPort: 8080,
		LogLevel: "info",
	}
	cfg.Database.Type = "sqlite"
	cfg.Database.DSN = "./plan-engine.db"
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 2
	return cfg
}

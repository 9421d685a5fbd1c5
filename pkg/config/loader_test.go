package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("文件不存在返回默认配置", func(t *testing.T) {
		cfg, err := Load("/nonexistent/path/engine.yaml")
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.Mode)
		assert.Equal(t, 8080, cfg.HTTPPort)
		assert.Equal(t, "sqlite", cfg.Database.Type)
	})

	t.Run("加载YAML配置文件", func(t *testing.T) {
		content := `
mode: release
http_port: 9090
log_level: warn
database:
  type: postgres
  dsn: "host=localhost dbname=planner sslmode=disable"
  max_open_conns: 20
  max_idle_conns: 5
`
		path := filepath.Join(t.TempDir(), "engine.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "release", cfg.Mode)
		assert.Equal(t, 9090, cfg.HTTPPort)
		assert.Equal(t, "postgres", cfg.Database.Type)
		assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	})

	t.Run("缺省字段保留默认值", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mode: release\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.HTTPPort)
		assert.Equal(t, "sqlite", cfg.Database.Type)
	})

	t.Run("非法YAML返回错误", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "engine.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mode: [unclosed"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("默认配置合法", func(t *testing.T) {
		assert.NoError(t, Validate(Default()))
	})

	t.Run("空配置不合法", func(t *testing.T) {
		assert.Error(t, Validate(nil))
	})

	t.Run("非法端口", func(t *testing.T) {
		cfg := Default()
		cfg.HTTPPort = 0
		assert.Error(t, Validate(cfg))
		cfg.HTTPPort = 70000
		assert.Error(t, Validate(cfg))
	})

	t.Run("非法日志级别", func(t *testing.T) {
		cfg := Default()
		cfg.LogLevel = "verbose"
		assert.Error(t, Validate(cfg))
	})

	t.Run("非法数据库类型", func(t *testing.T) {
		cfg := Default()
		cfg.Database.Type = "oracle"
		assert.Error(t, Validate(cfg))
	})

	t.Run("DSN不能为空", func(t *testing.T) {
		cfg := Default()
		cfg.Database.DSN = ""
		assert.Error(t, Validate(cfg))
	})
}

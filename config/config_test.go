package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.True(t, cfg.Analytics.Enabled)
	assert.Equal(t, time.Second, cfg.Analytics.DropLogInterval.Duration())
	assert.False(t, cfg.EventLog.EnableArchive)
	assert.Equal(t, "connlog/", cfg.EventLog.ArchivePrefix)
	assert.Equal(t, filepath.Join("data", "connlog.db"), filepath.Clean(cfg.Storage.DBPath()))
}

// TestConfig_Validate 测试各子配置验证
func TestConfig_Validate(t *testing.T) {
	t.Run("NegativeDropInterval", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Analytics.DropLogInterval = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("ArchiveWithoutDataDir", func(t *testing.T) {
		cfg := NewConfig()
		cfg.EventLog.EnableArchive = true
		cfg.Storage.DataDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("DataDirIgnoredWithoutArchive", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Storage.DataDir = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("BadMetricsNamespace", func(t *testing.T) {
		cfg := NewConfig()
		cfg.EventLog.MetricsNamespace = "conn-log"
		assert.Error(t, cfg.Validate())
	})

	t.Run("BadIntrospectAddr", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Introspect.Enabled = true
		cfg.Introspect.Addr = "localhost"
		assert.Error(t, cfg.Validate())
	})
}

// TestFromJSON 测试 JSON 加载
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"analytics": {"enabled": true, "no_record_time": true, "drop_log_interval": "250ms"},
		"event_log": {"enable_archive": true, "enable_metrics": false, "enable_slog": false, "archive_prefix": "x/"},
		"storage": {"data_dir": "/tmp/connlog"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)
	assert.True(t, cfg.Analytics.NoRecordTime)
	assert.Equal(t, 250*time.Millisecond, cfg.Analytics.DropLogInterval.Duration())
	assert.True(t, cfg.EventLog.EnableArchive)
	assert.Equal(t, "x/", cfg.EventLog.ArchivePrefix)
	// 未出现的字段保持默认值
	assert.Equal(t, "connlog", cfg.EventLog.MetricsNamespace)
	assert.Equal(t, "127.0.0.1:6061", cfg.Introspect.Addr)
}

// TestFromJSON_UnknownField 测试未知字段被拒绝
func TestFromJSON_UnknownField(t *testing.T) {
	_, err := FromJSON([]byte(`{"analytic": {}}`))
	assert.Error(t, err)
}

// TestFromYAML 测试 YAML 加载
func TestFromYAML(t *testing.T) {
	data := []byte(`
analytics:
  enabled: true
  keep_failed_upgrade_attempts: true
  drop_log_interval: 2s
introspect:
  enabled: true
  addr: 127.0.0.1:9999
`)

	cfg, err := FromYAML(data)
	require.NoError(t, err)
	assert.True(t, cfg.Analytics.KeepFailedUpgradeAttempts)
	assert.Equal(t, 2*time.Second, cfg.Analytics.DropLogInterval.Duration())
	assert.Equal(t, "127.0.0.1:9999", cfg.Introspect.Addr)
	assert.True(t, cfg.EventLog.EnableSlog)
}

// TestFromYAML_Empty 测试空 YAML 返回默认配置
func TestFromYAML_Empty(t *testing.T) {
	cfg, err := FromYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

// TestLoadFile 测试按扩展名加载
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "connlog.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("analytics:\n  no_record_time: true\n"), 0o600))
	cfg, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.True(t, cfg.Analytics.NoRecordTime)

	jsonPath := filepath.Join(dir, "connlog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"storage": {"data_dir": "d"}}`), 0o600))
	cfg, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "d", cfg.Storage.DataDir)

	_, err = LoadFile(filepath.Join(dir, "connlog.toml"))
	assert.Error(t, err)

	tomlPath := filepath.Join(dir, "real.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("x = 1"), 0o600))
	_, err = LoadFile(tomlPath)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// TestDuration_JSON 测试 Duration 编解码
func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, time.Microsecond, d.Duration())

	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))

	out, err := Duration(5 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"5s"`, string(out))
}

// TestValidateAndFix 测试自动修复
func TestValidateAndFix(t *testing.T) {
	cfg := NewConfig()
	cfg.Analytics.DropLogInterval = -5
	cfg.EventLog.EnableArchive = true
	cfg.EventLog.ArchivePrefix = ""
	cfg.EventLog.MetricsNamespace = ""

	fixed, err := ValidateAndFix(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Second, fixed.Analytics.DropLogInterval.Duration())
	assert.Equal(t, "connlog/", fixed.EventLog.ArchivePrefix)
	assert.Equal(t, "connlog", fixed.EventLog.MetricsNamespace)

	def, err := ValidateAndFix(nil)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), def)

	assert.Panics(t, func() { MustValidate(nil) })
}

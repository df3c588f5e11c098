package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Sheets SheetsConfig `toml:"sheets"`
	Data   DataConfig   `toml:"data"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// SheetsConfig Google Sheets 连接配置
// Spreadsheet 接受完整 URL 或裸 ID；凭证二选一，优先使用内联 JSON
type SheetsConfig struct {
	Spreadsheet     string `toml:"spreadsheet"`
	CredentialsFile string `toml:"credentials_file"`
	CredentialsJSON string `toml:"credentials_json"`
}

// DataConfig 数据结构配置
type DataConfig struct {
	// IdentityColumns 身份列（必须全部存在，其余列视为成绩列）
	IdentityColumns []string `toml:"identity_columns"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20483,
			DevMode: false,
		},
		Sheets: SheetsConfig{},
		Data: DataConfig{
			// 默认匹配目标表格的表头：번호(编号) / 이름(姓名) / 성별(性别)
			IdentityColumns: []string{"번호", "이름", "성별"},
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 从 config.toml 加载配置
// path 为空时取可执行文件同目录下的 config.toml；文件不存在时使用默认配置
func LoadConfig(path string) (*AppConfig, error) {
	config := DefaultConfig()

	if path == "" {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		path = filepath.Join(exeDir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if len(config.Data.IdentityColumns) == 0 {
		config.Data.IdentityColumns = DefaultConfig().Data.IdentityColumns
	}
	if config.Cache.TTLSeconds <= 0 {
		config.Cache.TTLSeconds = DefaultConfig().Cache.TTLSeconds
	}

	return config, nil
}

// applyEnvOverrides 环境变量覆盖（凭证不必写入配置文件）
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("SCOREVIEW_SPREADSHEET"); v != "" {
		config.Sheets.Spreadsheet = v
	}
	if v := os.Getenv("SCOREVIEW_CREDENTIALS_FILE"); v != "" {
		config.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("SCOREVIEW_CREDENTIALS_JSON"); v != "" {
		config.Sheets.CredentialsJSON = v
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		path = filepath.Join(exeDir, "config.toml")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

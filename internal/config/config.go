package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Port     string `yaml:"port"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	JWT struct {
		Secret     string `yaml:"secret"`
		Expiration string `yaml:"expiration"`
	} `yaml:"jwt"`
	Engine struct {
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		PollInterval int    `yaml:"poll_interval"` // 轮询间隔(秒)，默认2秒
	} `yaml:"engine"`
	Progress struct {
		Baseline     int `yaml:"baseline"`      // 进度基线，默认60
		GrowthFactor int `yaml:"growth_factor"` // 每条输出的进度增量，默认3
		Ceiling      int `yaml:"ceiling"`       // 完成前的进度上限，默认95
	} `yaml:"progress"`
	Storage struct {
		Dir     string `yaml:"dir"`      // 本地存储目录
		BaseURL string `yaml:"base_url"` // 文件访问URL前缀
	} `yaml:"storage"`
}

func LoadConfig(filePath string) (*Config, error) {
	config := &Config{}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	return config, nil
}

// applyDefaults 填充未配置项的默认值
func (c *Config) applyDefaults() {
	if c.Engine.PollInterval <= 0 {
		c.Engine.PollInterval = 2
	}
	if c.Progress.Baseline <= 0 {
		c.Progress.Baseline = 60
	}
	if c.Progress.GrowthFactor <= 0 {
		c.Progress.GrowthFactor = 3
	}
	if c.Progress.Ceiling <= 0 {
		c.Progress.Ceiling = 95
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "./static/uploads"
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = "/static/uploads"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data.db"
	}
}

// applyEnvOverrides 用环境变量覆盖敏感配置（密钥不落配置文件）
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ENGINE_API_KEY"); v != "" {
		c.Engine.APIKey = v
	}
	if v := os.Getenv("ENGINE_BASE_URL"); v != "" {
		c.Engine.BaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
}

func InitConfig() *Config {
	// .env 文件不存在时静默忽略，生产环境直接使用进程环境变量
	_ = godotenv.Load()

	config, err := LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return config
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Content ContentConfig `yaml:"content"`
	Listing ListingConfig `yaml:"listing"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ContentConfig 는 헤드리스 CMS(Prismic 호환) API 접속 정보를 담는다.
type ContentConfig struct {
	// Endpoint 예: https://spacetraveling.cdn.prismic.io
	Endpoint     string        `yaml:"endpoint"`
	DocumentType string        `yaml:"document_type"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ListingConfig controls the first page fetched for the post listing.
type ListingConfig struct {
	// PageSize 는 목록 첫 페이지 및 "더 보기" 한 번에 가져올 포스트 수이다.
	PageSize int `yaml:"page_size"`
	// MaxPages caps the ?pages= replay on the server-rendered listing.
	MaxPages int `yaml:"max_pages"`
}

type SiteConfig struct {
	Title     string `yaml:"title"`
	BaseURL   string `yaml:"base_url"`
	OutputDir string `yaml:"output_dir"`
	// FallbackTimeout 이 지나도 포스트를 가져오지 못하면 로딩 화면을 대신 렌더링한다.
	FallbackTimeout  time.Duration `yaml:"fallback_timeout"`
	BuildConcurrency int           `yaml:"build_concurrency"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ServeStatic    bool     `yaml:"serve_static"`
	WebhookEnabled bool     `yaml:"webhook_enabled"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c, err := Load(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}
	config = c
}

// Load reads a yaml config file, applies environment overrides and fills defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyEnv()
	c.applyDefaults()
	if c.Content.Endpoint == "" {
		return nil, fmt.Errorf("config: content.endpoint is required")
	}
	return &c, nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("CONTENT_API_ENDPOINT"); v != "" {
		c.Content.Endpoint = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SITE_BASE_URL"); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *AppConfig) applyDefaults() {
	c.Content.Endpoint = strings.TrimRight(c.Content.Endpoint, "/")
	if c.Content.DocumentType == "" {
		c.Content.DocumentType = "posts"
	}
	if c.Content.Timeout <= 0 {
		c.Content.Timeout = 10 * time.Second
	}
	if c.Listing.PageSize <= 0 {
		c.Listing.PageSize = 10
	}
	if c.Listing.MaxPages <= 0 {
		c.Listing.MaxPages = 20
	}
	if c.Site.Title == "" {
		c.Site.Title = "spacetraveling"
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Site.OutputDir == "" {
		c.Site.OutputDir = "out"
	}
	if c.Site.FallbackTimeout <= 0 {
		c.Site.FallbackTimeout = 5 * time.Second
	}
	if c.Site.BuildConcurrency <= 0 {
		c.Site.BuildConcurrency = 4
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

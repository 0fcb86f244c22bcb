package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultTimeout     = 10 * time.Second
	DefaultPageSize    = 10
	DefaultDevAddr     = ":8080"
	DefaultMongoDB     = "inkwell"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGeminiRPM   = 10
	DefaultImportLimit = 20
)

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Service   ServiceConfig   `yaml:"service"`
	Store     StoreConfig     `yaml:"store"`
	DevServer DevServerConfig `yaml:"devserver"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServiceConfig 는 원격 게시 서비스 접속 정보이다.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// ReviewTimeout 은 /ai 엔드포인트 전용 타임아웃. 0이면 클라이언트 기본값(2분)을 쓴다.
	ReviewTimeout time.Duration `yaml:"review_timeout"`
	// Token 은 Authorization 헤더에 실리는 bearer 토큰. INKWELL_TOKEN 으로 덮어쓸 수 있다.
	Token string `yaml:"token"`
}

type StoreConfig struct {
	PageSize int `yaml:"page_size"`
}

// DevServerConfig 는 cmd/devserver 전용 설정이다.
type DevServerConfig struct {
	Addr string `yaml:"addr"`
	// Storage 는 "memory" 또는 "mongo".
	Storage      string   `yaml:"storage"`
	MongoURI     string   `yaml:"mongo_uri"`
	MongoDB      string   `yaml:"mongo_db"`
	GeminiModel  string   `yaml:"gemini_model"`
	GeminiAPIKey string   `yaml:"-"`
	// GeminiRPM/GeminiRPD 는 모델 호출 분당/일일 한도. RPD 가 0이면 일일 제한이 없다.
	GeminiRPM    int      `yaml:"gemini_rpm"`
	GeminiRPD    int      `yaml:"gemini_rpd"`
	// JWTSecret 가 있으면 작성자 토큰을 HS256 JWT 로 검증한다. INKWELL_JWT_SECRET 으로만 설정한다.
	JWTSecret    string   `yaml:"-"`
	JWTIssuer    string   `yaml:"jwt_issuer"`
	Seed         bool     `yaml:"seed"`
	// ImportFeeds 의 RSS/Atom 피드 항목을 기동 시 게시글로 가져온다.
	ImportFeeds  []string `yaml:"import_feeds"`
	ImportLimit  int      `yaml:"import_limit"`
	AllowOrigins []string `yaml:"allow_origins"`
}

var (
	config *AppConfig
	mu     sync.Mutex
)

// InitApp 은 base path 에서 .env 와 config.yaml 을 읽는다. 설정 파일이 없어도
// 에러가 아니며 기본값과 환경변수 덮어쓰기는 그대로 적용된다.
func InitApp() error {
	base := GetBasePath()
	if base != "" {
		_ = godotenv.Load(filepath.Join(base, ENV_FILE))
	} else {
		_ = godotenv.Load()
	}

	c, err := Load(filepath.Join(base, CONFIG_FILE))
	if err != nil {
		return err
	}
	mu.Lock()
	config = c
	mu.Unlock()
	return nil
}

// Load 는 path 가 있으면 읽고, 기본값과 환경변수 덮어쓰기를 적용한다.
func Load(path string) (*AppConfig, error) {
	var c AppConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	c.applyEnv()
	c.applyDefaults()
	return &c, nil
}

func GetConfig() AppConfig {
	mu.Lock()
	loaded := config
	mu.Unlock()
	if loaded == nil {
		if err := InitApp(); err != nil {
			c := AppConfig{}
			c.applyEnv()
			c.applyDefaults()
			return c
		}
		mu.Lock()
		loaded = config
		mu.Unlock()
	}
	return *loaded
}

// Reset 은 캐시된 설정을 버린다. 테스트에서 사용한다.
func Reset() {
	mu.Lock()
	config = nil
	mu.Unlock()
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("INKWELL_BASE_URL"); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv("INKWELL_TOKEN"); v != "" {
		c.Service.Token = v
	}
	if v := os.Getenv("INKWELL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.DevServer.MongoURI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.DevServer.GeminiAPIKey = v
	}
	if v := os.Getenv("INKWELL_JWT_SECRET"); v != "" {
		c.DevServer.JWTSecret = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Service.BaseURL = strings.TrimRight(c.Service.BaseURL, "/")
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = DefaultBaseURL
	}
	if c.Service.Timeout <= 0 {
		c.Service.Timeout = DefaultTimeout
	}
	if c.Store.PageSize <= 0 {
		c.Store.PageSize = DefaultPageSize
	}
	if c.DevServer.Addr == "" {
		c.DevServer.Addr = DefaultDevAddr
	}
	if c.DevServer.Storage == "" {
		c.DevServer.Storage = "memory"
	}
	if c.DevServer.MongoDB == "" {
		c.DevServer.MongoDB = DefaultMongoDB
	}
	if c.DevServer.GeminiModel == "" {
		c.DevServer.GeminiModel = DefaultGeminiModel
	}
	if c.DevServer.ImportLimit <= 0 {
		c.DevServer.ImportLimit = DefaultImportLimit
	}
	if c.DevServer.JWTIssuer == "" {
		c.DevServer.JWTIssuer = "inkwell"
	}
	if c.DevServer.GeminiRPM == 0 {
		c.DevServer.GeminiRPM = DefaultGeminiRPM
	}
	if len(c.DevServer.AllowOrigins) == 0 {
		c.DevServer.AllowOrigins = []string{"*"}
	}
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

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the optional local override file read at startup.
const DefaultEnvFile = ".env"

// ErrMissingCredentials is returned when the API endpoint or its credentials are not configured.
var ErrMissingCredentials = errors.New("config: missing credentials")

// Config holds application configuration
type Config struct {
	BaseURL        string
	APIUser        string
	APIPassword    string
	ServerIP       string
	TemplateID     string
	DIDsPageURL    string
	ProtectedDIDID int
	Source         string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	MetricsFile    string
}

// Load reads configuration from environment variables, overlaid with the
// values of envFile when it exists. Non-blank file values take precedence.
func Load(envFile string) (*Config, error) {
	lookup := os.Getenv
	if envFile != "" {
		overrides, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			lookup = func(key string) string {
				if v := strings.TrimSpace(overrides[key]); v != "" {
					return v
				}
				return os.Getenv(key)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", envFile, err)
		}
	}
	return fromLookup(lookup), nil
}

func fromLookup(lookup func(string) string) *Config {
	l := loader{lookup: lookup}
	cfg := &Config{
		BaseURL:        l.getEnv("BASE_URL", ""),
		APIUser:        l.getEnv("API_USER", ""),
		APIPassword:    l.getEnv("API_PASSWORD", ""),
		ServerIP:       l.getEnv("SERVER_IP", ""),
		TemplateID:     l.getEnv("PHONE_TEMPLATE_ID", ""),
		DIDsPageURL:    l.getEnv("DIDS_PAGE_URL", ""),
		ProtectedDIDID: l.getEnvAsInt("PROTECTED_DID_ID", 1),
		Source:         l.getEnv("API_SOURCE", "vicidial-admin"),
		ConnectTimeout: l.getEnvAsDuration("CONNECT_TIMEOUT", 10*time.Second),
		RequestTimeout: l.getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		LogLevel:       l.getEnv("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(l.getEnv("LOG_FORMAT", "text")),
		MetricsFile:    l.getEnv("METRICS_FILE", ""),
	}
	if cfg.DIDsPageURL == "" {
		cfg.DIDsPageURL = deriveDIDsPageURL(cfg.BaseURL)
	}
	return cfg
}

// Validate reports every required key that is missing.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "BASE_URL")
	}
	if strings.TrimSpace(c.APIUser) == "" {
		missing = append(missing, "API_USER")
	}
	if strings.TrimSpace(c.APIPassword) == "" {
		missing = append(missing, "API_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s in the environment or %s", ErrMissingCredentials, strings.Join(missing, ", "), DefaultEnvFile)
	}
	return nil
}

// deriveDIDsPageURL points at the DID listing of the admin UI that lives
// next to the API script, e.g. .../vicidial/non_agent_api.php becomes
// .../vicidial/admin.php?ADD=1300.
func deriveDIDsPageURL(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	dir := path.Dir(u.Path)
	if strings.HasSuffix(u.Path, "/") {
		dir = strings.TrimSuffix(u.Path, "/")
	}
	if dir == "." || dir == "/" {
		dir = ""
	}
	u.Path = dir + "/admin.php"
	u.RawQuery = "ADD=1300"
	u.Fragment = ""
	return u.String()
}

type loader struct {
	lookup func(string) string
}

// getEnv retrieves an environment variable or returns a default value
func (l loader) getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(l.lookup(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func (l loader) getEnvAsInt(key string, defaultValue int) int {
	valueStr := l.getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func (l loader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := l.getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	if seconds := l.getEnvAsInt(key, 0); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Graph store backends
const (
	GraphBackendNeo4j    = "neo4j"
	GraphBackendDynamoDB = "dynamodb"
	GraphBackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress  string        `yaml:"server_address"`
	Environment    string        `yaml:"environment"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// LLM configuration
	OpenAIAPIKey           string  `yaml:"openai_api_key"`
	OpenAIOrganization     string  `yaml:"openai_organization_id"`
	OpenAIModel            string  `yaml:"openai_model"`
	OpenAIBaseURL          string  `yaml:"openai_base_url"`
	ExplanationTemperature float64 `yaml:"explanation_temperature"`
	TermsTemperature       float64 `yaml:"terms_temperature"`
	MaxTokens              int     `yaml:"max_tokens"`
	LLMCircuitBreaker      bool    `yaml:"llm_circuit_breaker"`

	// Graph store configuration
	GraphBackend  string `yaml:"graph_backend"`
	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`

	// AWS configuration (DynamoDB graph backend)
	AWSRegion        string `yaml:"aws_region"`
	DynamoDBTable    string `yaml:"dynamodb_table"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint"`

	// Lambda configuration
	IsLambda           bool   `yaml:"is_lambda"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Per-client limit on educate requests; 0 disables limiting
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Feature flags
	EnableMetrics      bool     `yaml:"enable_metrics"`
	EnableTracing      bool     `yaml:"enable_tracing"`
	EnableCORS         bool     `yaml:"enable_cors"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	OTLPEndpoint       string   `yaml:"otlp_endpoint"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		ServerAddress:  "127.0.0.1:8002",
		Environment:    "development",
		RequestTimeout: 120 * time.Second,

		OpenAIModel:            "gpt-4",
		ExplanationTemperature: 0.7,
		TermsTemperature:       0.3,

		GraphBackend:  GraphBackendNeo4j,
		Neo4jDatabase: "neo4j",

		AWSRegion:     "us-west-2",
		DynamoDBTable: "econbot-graph",

		LogLevel:           "info",
		EnableCORS:         true,
		CORSAllowedOrigins: []string{"http://localhost:8501", "http://127.0.0.1:8501"},
	}
}

// LoadConfig loads configuration from defaults, an optional YAML file named
// by CONFIG_FILE, and environment variables, in increasing priority.
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile overlays values from a YAML file onto the current configuration
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from environment variables that are set
func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)

	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIOrganization = getEnv("OPENAI_ORGANIZATION_ID", c.OpenAIOrganization)
	c.OpenAIModel = getEnv("OPENAI_MODEL", c.OpenAIModel)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.ExplanationTemperature = getEnvFloat("EXPLANATION_TEMPERATURE", c.ExplanationTemperature)
	c.TermsTemperature = getEnvFloat("TERMS_TEMPERATURE", c.TermsTemperature)
	c.MaxTokens = getEnvInt("MAX_TOKENS", c.MaxTokens)
	c.LLMCircuitBreaker = getEnvBool("LLM_CIRCUIT_BREAKER", c.LLMCircuitBreaker)

	c.GraphBackend = strings.ToLower(getEnv("GRAPH_BACKEND", c.GraphBackend))
	c.Neo4jURI = getEnv("NEO4J_URI", c.Neo4jURI)
	c.Neo4jUser = getEnv("NEO4J_USER", c.Neo4jUser)
	c.Neo4jPassword = getEnv("NEO4J_PASSWORD", c.Neo4jPassword)
	c.Neo4jDatabase = getEnv("NEO4J_DATABASE", c.Neo4jDatabase)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)

	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda)
	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", c.LambdaFunctionName)
	if c.LambdaFunctionName != "" {
		c.IsLambda = true
	}

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.OTLPEndpoint)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ExplanationTemperature < 0 || c.ExplanationTemperature > 2 {
		return fmt.Errorf("EXPLANATION_TEMPERATURE must be between 0 and 2")
	}
	if c.TermsTemperature < 0 || c.TermsTemperature > 2 {
		return fmt.Errorf("TERMS_TEMPERATURE must be between 0 and 2")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}

	switch c.GraphBackend {
	case GraphBackendNeo4j:
		if c.Neo4jURI == "" {
			return fmt.Errorf("NEO4J_URI is required")
		}
		if c.Neo4jUser == "" || c.Neo4jPassword == "" {
			return fmt.Errorf("NEO4J_USER and NEO4J_PASSWORD are required")
		}
	case GraphBackendDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
	case GraphBackendMemory:
		if c.IsProduction() {
			return fmt.Errorf("GRAPH_BACKEND=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown GRAPH_BACKEND %q", c.GraphBackend)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// LLM_API_KEY es opcional: sin key el metodo "ai" responde con un
	// fallo explicito y el metodo "points" sigue funcionando.
	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-5.1"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	MatchMaxResults      int `env:"MATCH_MAX_RESULTS" envDefault:"50"`
	MatchCacheTTLSeconds int `env:"MATCH_CACHE_TTL_SECONDS" envDefault:"60"`
	DBTimeoutSeconds     int `env:"DB_TIMEOUT_SECONDS" envDefault:"5"`
	AITimeoutSeconds     int `env:"AI_TIMEOUT_SECONDS" envDefault:"60"`
	AIRateWindowSeconds  int `env:"AI_RATE_WINDOW_SECONDS" envDefault:"60"`
	AIRateMax            int `env:"AI_RATE_MAX" envDefault:"10"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package config

import "time"

type HTTP struct {
	BaseURL   string    `env:"BASE_URL,expand" envDefault:"/"`
	Address   string    `env:"ADDRESS,expand" envDefault:":8081"`
	CORS      CORS      `envPrefix:"CORS_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`

	SwaggerUIAssetsURL string `env:"SWAGGER_UI_ASSETS_URL,expand" envDefault:"https://unpkg.com/swagger-ui-dist@5.17.14"`
}

type CORS struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,expand" envSeparator:"," envDefault:"http://localhost:3000"`
}

type RateLimit struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	Interval     time.Duration `env:"INTERVAL" envDefault:"100ms"`
	Burst        int           `env:"BURST" envDefault:"50"`
	TrustHeaders bool          `env:"TRUST_HEADERS" envDefault:"false"`
	CacheSize    int           `env:"CACHE_SIZE" envDefault:"1024"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

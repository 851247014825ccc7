package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort            string   `env:"HTTP_PORT" envDefault:"5003"`
	Environment         string   `env:"APP_ENV" envDefault:"development"`
	DatabaseURL         string   `env:"DATABASE_URL,required"`
	JWTSecret           string   `env:"JWT_SECRET_KEY,required"`
	JWTRefreshSecret    string   `env:"JWT_REFRESH_SECRET_KEY,required"`
	JWTAccessTTLMinutes int      `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	JWTRefreshTTLHours  int      `env:"JWT_REFRESH_TTL_HOURS" envDefault:"168"`
	CORSOrigins         []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

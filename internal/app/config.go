package app

import (
	"time"

	"github.com/bazaarlane/admin-backend/internal/platform/envutil"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	GateExemptFile string
	RedisAddr      string
	MetricsAddr    string
	Environment    string
	Version        string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	return Config{
		Port:            envutil.GetEnv("PORT", "8080", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		GateExemptFile:  envutil.GetEnv("GATE_EXEMPT_FILE", "", log),
		RedisAddr:       envutil.GetEnv("REDIS_ADDR", "", log),
		MetricsAddr:     envutil.GetEnv("METRICS_ADDR", "", log),
		Environment:     envutil.GetEnv("ENVIRONMENT", "development", log),
		Version:         envutil.GetEnv("SERVICE_VERSION", "dev", log),
	}
}

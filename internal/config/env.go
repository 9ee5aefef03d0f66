package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string
	GinMode string

	BackendURL     string
	BackendTimeout time.Duration

	// JWTSecret verifies access tokens when set; otherwise claims are only decoded.
	JWTSecret string

	CookieSecret        string
	RefreshCookieName   string
	RefreshCookieMaxAge time.Duration
	CookieSecure        bool
	CookieDomain        string

	CORSAllowedOrigins []string

	DBDSN string

	AuthRateLimit int
	AuthRateBurst int
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("BACKEND_URL", "http://127.0.0.1:4000/api")
	v.SetDefault("BACKEND_TIMEOUT", "15s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("COOKIE_SECRET", "") // required; startup fails when empty
	v.SetDefault("REFRESH_COOKIE_NAME", "refresh_token")
	v.SetDefault("REFRESH_COOKIE_MAX_AGE", "168h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("AUTH_RATE_LIMIT", 10)
	v.SetDefault("AUTH_RATE_BURST", 5)
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() Env {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("warning: gagal membaca .env: %v", err)
		}
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) Env {
	appAddr := strings.TrimSpace(v.GetString("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	backendTimeout := v.GetDuration("BACKEND_TIMEOUT")
	if backendTimeout <= 0 {
		backendTimeout = 15 * time.Second
	}

	maxAge := v.GetDuration("REFRESH_COOKIE_MAX_AGE")
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}

	cookieName := strings.TrimSpace(v.GetString("REFRESH_COOKIE_NAME"))
	if cookieName == "" {
		cookieName = "refresh_token"
	}

	return Env{
		AppAddr:             appAddr,
		GinMode:             strings.TrimSpace(v.GetString("GIN_MODE")),
		BackendURL:          strings.TrimRight(strings.TrimSpace(v.GetString("BACKEND_URL")), "/"),
		BackendTimeout:      backendTimeout,
		JWTSecret:           v.GetString("JWT_SECRET"),
		CookieSecret:        v.GetString("COOKIE_SECRET"),
		RefreshCookieName:   cookieName,
		RefreshCookieMaxAge: maxAge,
		CookieSecure:        v.GetBool("COOKIE_SECURE"),
		CookieDomain:        strings.TrimSpace(v.GetString("COOKIE_DOMAIN")),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DBDSN:               strings.TrimSpace(v.GetString("DB_DSN")),
		AuthRateLimit:       v.GetInt("AUTH_RATE_LIMIT"),
		AuthRateBurst:       v.GetInt("AUTH_RATE_BURST"),
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

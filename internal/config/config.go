package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Document converter (pandoc). ConverterPath, when set, bypasses the
	// built-in probe list entirely.
	ConverterPath    string
	ConverterTimeout time.Duration

	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt

	// DevLogin enables the username==password teacher/proctor login
	// fallback. Defaults on in dev mode, off in prod.
	DevLogin bool

	CORSOrigins []string

	// Variant-code generation.
	VariantCodeLength  int
	VariantMaxAttempts int
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeDev
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		ConverterPath:    os.Getenv("CONVERTER_PATH"),
		ConverterTimeout: time.Duration(envInt("CONVERTER_TIMEOUT_SEC", 30)) * time.Second,

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", ""),
		DevLogin:       envBool("ENABLE_DEV_LOGIN", mode != ModeProd),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		VariantCodeLength:  envInt("VARIANT_CODE_LENGTH", 6),
		VariantMaxAttempts: envInt("VARIANT_MAX_ATTEMPTS", 50),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

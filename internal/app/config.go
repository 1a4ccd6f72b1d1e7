package app

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	Env       string
	HTTPAddr  string
	CORSAllow []string

	StaticDir string // client assets; empty disables static serving
}

func LoadConfig() Config {
	cfg := Config{
		Env:       getEnv("APP_ENV", "dev"),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		StaticDir: getEnv("STATIC_DIR", "public"),
	}
	// CORS allowlist
	allow := getEnv("CORS_ALLOW", "http://localhost:4200")
	cfg.CORSAllow = splitCSV(allow)
	log.Printf("config: %+v\n", cfg)
	return cfg
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

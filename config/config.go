package config

import (
	"os"
	"strconv"
	"strings"
)

// defaultOrigins cover the deployed frontend plus the Vite dev server.
var defaultOrigins = []string{
	"https://harshbookstore.vercel.app",
	"http://localhost:5173",
}

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	UploadDir      string
	MaxUploadMB    int64
	AllowedOrigins []string
}

func Load() (*Config, error) {
	maxMB := int64(10)
	if v := getEnv("MAX_UPLOAD_MB", "10"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}

	origins := defaultOrigins
	if v := getEnv("ALLOWED_ORIGINS", ""); v != "" {
		origins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		Port:           getEnv("PORT", "5000"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("MONGODB_DB", "bookstore"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:    maxMB,
		AllowedOrigins: origins,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

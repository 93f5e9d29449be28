package config

import (
	"os"
	"strconv"
)

type Config struct {
	DataDir    string
	DBPath     string
	ListenAddr string
	LogLevel   string
	LogFormat  string
	LogFile    string
	Donors     int
	Donations  int
	Requests   int
	Seed       int64
}

func Load() *Config {
	return &Config{
		DataDir:    getEnv("DATA_DIR", "data"),
		DBPath:     getEnv("DB_PATH", "blood_inventory.db"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		LogFile:    getEnv("LOG_FILE", ""),
		Donors:     getEnvInt("GEN_DONORS", 500),
		Donations:  getEnvInt("GEN_DONATIONS", 1500),
		Requests:   getEnvInt("GEN_REQUESTS", 600),
		Seed:       int64(getEnvInt("GEN_SEED", 123)),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

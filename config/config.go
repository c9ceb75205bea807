package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port              string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPass            string
	DBName            string
	DBNameTest        string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	StorageRoot       string
	DateDirFormat     string
	UploadLimitSize   int64
	HashBufferSize    int
	DownloadChunkSize int64
	DedupRetryMax     int
	SnowflakeNode     int64
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// InitConfig loads configuration from the environment.
func InitConfig() {
	AppConfig = Config{
		Port:          getEnv("PORT", "8000"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "root"),
		DBPass:        getEnv("DB_PASS", "root"),
		DBName:        getEnv("DB_NAME", "go_oss"),
		DBNameTest:    getEnv("DB_NAME_TEST", "go_oss_test"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		StorageRoot:   getEnv("STORAGE_ROOT", "storage"),
		// year/month/day/hour sharding keeps per-directory fan-out bounded
		DateDirFormat:     getEnv("DATE_DIR_FORMAT", "2006/01/02/15"),
		UploadLimitSize:   getEnvInt64("UPLOAD_LIMIT_SIZE", 300*1024*1024),
		HashBufferSize:    getEnvInt("HASH_BUFFER_SIZE", 1024*1024),
		DownloadChunkSize: getEnvInt64("DOWNLOAD_CHUNK_SIZE", 1024*1024),
		DedupRetryMax:     getEnvInt("DEDUP_RETRY_MAX", 10),
		SnowflakeNode:     getEnvInt64("SNOWFLAKE_NODE", 0),
	}
}

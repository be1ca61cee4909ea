package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит настройки приложения
type Config struct {
	DBHost      string        // Хост базы данных
	DBPort      string        // Порт базы данных
	DBUser      string        // Пользователь базы данных
	DBPassword  string        // Пароль базы данных
	DBName      string        // Имя базы данных
	ServerPort  string        // Порт HTTP-сервера
	JWTSecret   string        // Секрет для JWT
	TokenExpiry time.Duration // Время жизни токена

	BaseCurrency     string        // Базовая валюта отчётности
	SnapshotCronSpec string        // Расписание ночного снимка статистики
	RefreshInterval  time.Duration // Период фонового пересчёта дашборда
	EstimateIncome   bool          // Оценивать доход работников при пустых данных
	RatesCacheTTL    time.Duration // Время жизни кэша валютных курсов
}

// LoadConfig загружает конфигурацию из .env файла
func LoadConfig() (*Config, error) {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Файл .env не найден")
	}

	// Парсим время жизни токена
	expiry, err := time.ParseDuration(os.Getenv("TOKEN_EXPIRY"))
	if err != nil {
		expiry = 24 * time.Hour // По умолчанию 24 часа
	}

	refresh, err := time.ParseDuration(os.Getenv("DASHBOARD_REFRESH_INTERVAL"))
	if err != nil {
		refresh = 30 * time.Second
	}

	ratesTTL, err := time.ParseDuration(os.Getenv("RATES_CACHE_TTL"))
	if err != nil {
		ratesTTL = time.Hour
	}

	// Создаем объект конфигурации
	config := &Config{
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "company_finance"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "default-secret-key"),
		TokenExpiry: expiry,

		BaseCurrency:     getEnv("BASE_CURRENCY", "UZS"),
		SnapshotCronSpec: getEnv("SNAPSHOT_CRON", "0 0 * * *"),
		RefreshInterval:  refresh,
		EstimateIncome:   os.Getenv("ESTIMATE_WORKER_INCOME") == "true",
		RatesCacheTTL:    ratesTTL,
	}

	return config, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

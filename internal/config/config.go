package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig содержит конфигурацию эталонного бэкенда
type ServerConfig struct {
	RunAddress  string        // Адрес и порт запуска сервиса
	JWTSecret   string        // Секретный ключ для JWT
	JWTTokenTTL time.Duration // Время жизни JWT токена
	LogLevel    string        // Уровень логирования

	// Сборщик просроченных резервов
	SweepWorkers   int           // Количество воркеров
	SweepQueueSize int           // Размер очереди заказов
	SweepInterval  time.Duration // Интервал сканирования
	ReservationTTL time.Duration // Срок жизни резерва в статусе check
}

// ClientConfig содержит конфигурацию клиента заказов
type ClientConfig struct {
	ServerAddress  string        // Базовый URL API книжного магазина
	Token          string        // Bearer-токен текущей сессии
	RequestTimeout time.Duration // Таймаут одного запроса
	RetryMax       int           // Повторы идемпотентных запросов
	PageSize       int           // Размер страницы списка заказов
	LogLevel       string        // Уровень логирования
}

// LoadServer загружает конфигурацию сервера из переменных окружения и флагов.
// Приоритет: env переменные > флаги > дефолтные значения
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{
		JWTTokenTTL:    24 * time.Hour,
		LogLevel:       "info",
		SweepWorkers:   2,
		SweepQueueSize: 100,
		SweepInterval:  30 * time.Second,
		ReservationTTL: 15 * time.Minute,
	}

	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	flag.Parse()

	if envRunAddr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = envRunAddr
	}

	// JWT секрет только из env, не из флагов
	if envJWTSecret, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.JWTSecret = envJWTSecret
	} else {
		cfg.JWTSecret = "default-secret-key-change-in-production"
	}

	if envLogLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	if envWorkers, ok := os.LookupEnv("SWEEP_WORKERS"); ok {
		if workers, err := strconv.Atoi(envWorkers); err == nil && workers > 0 {
			cfg.SweepWorkers = workers
		}
	}

	if envQueueSize, ok := os.LookupEnv("SWEEP_QUEUE_SIZE"); ok {
		if size, err := strconv.Atoi(envQueueSize); err == nil && size > 0 {
			cfg.SweepQueueSize = size
		}
	}

	if envInterval, ok := os.LookupEnv("SWEEP_INTERVAL"); ok {
		if interval, err := time.ParseDuration(envInterval); err == nil && interval > 0 {
			cfg.SweepInterval = interval
		}
	}

	if envTTL, ok := os.LookupEnv("RESERVATION_TTL"); ok {
		if ttl, err := time.ParseDuration(envTTL); err == nil && ttl > 0 {
			cfg.ReservationTTL = ttl
		}
	}

	return cfg, nil
}

// LoadClient загружает конфигурацию клиента.
// Неразобранные аргументы остаются команде CLI (flag.Args)
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{
		RequestTimeout: 10 * time.Second,
		RetryMax:       2,
		PageSize:       10,
		LogLevel:       "info",
	}

	flag.StringVar(&cfg.ServerAddress, "s", "http://localhost:8080", "bookstore API base URL")
	flag.StringVar(&cfg.Token, "t", "", "bearer token")
	flag.Parse()

	if envServerAddr, ok := os.LookupEnv("LIBCO_SERVER_ADDRESS"); ok {
		cfg.ServerAddress = envServerAddr
	}

	if envToken, ok := os.LookupEnv("LIBCO_TOKEN"); ok && cfg.Token == "" {
		cfg.Token = envToken
	}

	if envTimeout, ok := os.LookupEnv("LIBCO_REQUEST_TIMEOUT"); ok {
		if timeout, err := time.ParseDuration(envTimeout); err == nil && timeout > 0 {
			cfg.RequestTimeout = timeout
		}
	}

	if envRetryMax, ok := os.LookupEnv("LIBCO_RETRY_MAX"); ok {
		if retries, err := strconv.Atoi(envRetryMax); err == nil && retries >= 0 {
			cfg.RetryMax = retries
		}
	}

	if envPageSize, ok := os.LookupEnv("LIBCO_PAGE_SIZE"); ok {
		if size, err := strconv.Atoi(envPageSize); err == nil && size > 0 {
			cfg.PageSize = size
		}
	}

	if envLogLevel, ok := os.LookupEnv("LIBCO_LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("server address is required (use -s flag or LIBCO_SERVER_ADDRESS env)")
	}

	return cfg, nil
}

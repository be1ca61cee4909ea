package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/analytics"
	"company-finance-api/internal/config"
	"company-finance-api/internal/handler"
	"company-finance-api/internal/model"
	"company-finance-api/internal/repository"
	"company-finance-api/internal/service"
)

func main() {
	logger := logrus.New()
	// Уровень логирования (Debug для разработки, Info для продакшена)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключение к PostgreSQL
	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Проверка соединения с БД
	if err := db.Ping(); err != nil {
		logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}

	// Инициализация репозиториев
	logger.Info("Инициализация репозиториев...")
	userRepo := repository.NewUserRepository(db, logger)
	transactionRepo := repository.NewTransactionRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)
	statisticRepo := repository.NewStatisticRepository(db, logger)

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	emailSender := service.NewEmailSender(logger)
	ratesClient := service.NewRatesClient(cfg.BaseCurrency, cfg.RatesCacheTTL, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenExpiry, logger)
	userService := service.NewUserService(userRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	transactionService := service.NewTransactionService(
		transactionRepo,
		userRepo,
		notificationService,
		emailSender,
		logger,
	)
	statisticService := service.NewStatisticService(statisticRepo, transactionRepo, ratesClient, logger)

	// Оценка дохода работников включается конфигурацией
	var rnd analytics.RandSource
	if cfg.EstimateIncome {
		rnd = rand.Float64
	}
	dashboardService := service.NewDashboardService(transactionRepo, userRepo, statisticService, rnd, logger)
	refresher := service.NewDashboardRefresher(dashboardService, cfg.RefreshInterval, logger)

	// Инициализация HTTP обработчиков
	logger.Info("Инициализация обработчиков API...")
	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	transactionHandler := handler.NewTransactionHandler(transactionService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, userService, logger)
	statisticHandler := handler.NewStatisticHandler(statisticService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, refresher, logger)

	// Настройка маршрутизатора
	router := mux.NewRouter()
	router.Use(handler.RequestIDMiddleware(logger))

	// 1. Публичные маршруты для аутентификации
	publicRouter := router.PathPrefix("/api/auth").Subrouter()
	authHandler.RegisterRoutes(publicRouter) // Регистрация /login

	// 2. Защищенные API маршруты (требуется JWT токен)
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.AuthMiddleware(authService, logger))

	// Маршруты для работы с транзакциями
	transactionRouter := apiRouter.PathPrefix("/transactions").Subrouter()
	transactionHandler.RegisterRoutes(transactionRouter)

	// Маршруты уведомлений
	notificationRouter := apiRouter.PathPrefix("/notifications").Subrouter()
	notificationHandler.RegisterRoutes(notificationRouter)

	// 3. Маршруты только для директора
	userRouter := apiRouter.PathPrefix("/users").Subrouter()
	userRouter.Use(handler.RequireRole(logger, model.UserRoleDirector))
	userHandler.RegisterRoutes(userRouter)

	statisticRouter := apiRouter.PathPrefix("/statistics").Subrouter()
	statisticRouter.Use(handler.RequireRole(logger, model.UserRoleDirector))
	statisticHandler.RegisterRoutes(statisticRouter)

	// Исторические пути статистики под /api/transactions/statistics
	statisticCompatRouter := transactionRouter.PathPrefix("/statistics").Subrouter()
	statisticCompatRouter.Use(handler.RequireRole(logger, model.UserRoleDirector))
	statisticHandler.RegisterTransactionRoutes(statisticCompatRouter)

	directorRouter := apiRouter.PathPrefix("/director").Subrouter()
	directorRouter.Use(handler.RequireRole(logger, model.UserRoleDirector))
	dashboardHandler.RegisterRoutes(directorRouter)

	// Настройка планировщика ночных снимков статистики
	logger.Info("Настройка планировщика снимков статистики...")
	c := cron.New()
	_, err = c.AddFunc(cfg.SnapshotCronSpec, func() {
		yesterday := time.Now().AddDate(0, 0, -1)
		logger.Info("Запуск создания дневного снимка статистики")
		if err := statisticService.CreateDailySnapshot(context.Background(), yesterday); err != nil {
			logger.WithError(err).Error("Ошибка создания снимка статистики")
		} else {
			logger.Info("Создание снимка статистики завершено успешно")
		}
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика: %v", err)
	}
	c.Start()

	// Фоновое обновление панели директора
	refresher.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Infof("Запуск сервера на порту :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	refresher.Stop()
	<-c.Stop().Done()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}
	logger.Info("Сервер успешно остановлен")
}

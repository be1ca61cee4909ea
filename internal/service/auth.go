package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"company-finance-api/internal/model"
	"company-finance-api/internal/repository"
)

// Claims - полезная нагрузка токена: имя пользователя и его роль
type Claims struct {
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo    *repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
	logger      *logrus.Logger
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, tokenExpiry time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Login Авторизация пользователя и генерация JWT токена
func (s *AuthService) Login(ctx context.Context, input model.LoginRequest) (*model.LoginResponse, error) {
	s.logger.WithField("username", input.Username).Info("Попытка входа пользователя")

	// Поиск пользователя по имени
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.WithError(err).Warn("Пользователь не найден или неверные учётные данные")
		return nil, fmt.Errorf("неверные учетные данные")
	}

	// Деактивированные пользователи не входят
	if !user.Active {
		s.logger.WithField("username", input.Username).Warn("Попытка входа деактивированного пользователя")
		return nil, fmt.Errorf("неверные учетные данные")
	}

	// Проверка пароля
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		s.logger.Warn("Неверный пароль при попытке входа")
		return nil, fmt.Errorf("неверные учетные данные")
	}

	// Генерация JWT токена
	token, err := s.GenerateJWTToken(user)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось сгенерировать JWT токен")
		return nil, fmt.Errorf("ошибка генерации токена: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("Пользователь успешно вошёл в систему")

	return &model.LoginResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
	}, nil
}

// GenerateJWTToken Генерация JWT токена
func (s *AuthService) GenerateJWTToken(user *model.User) (string, error) {
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken Разбор и валидация JWT токена
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	s.logger.Debug("Попытка парсинга JWT токена")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Проверка метода подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		s.logger.WithError(err).Warn("Невалидный JWT токен")
		return nil, fmt.Errorf("невалидный токен: %w", err)
	}

	if claims.Username == "" {
		s.logger.Error("Не удалось извлечь имя пользователя из токена")
		return nil, fmt.Errorf("некорректные claims токена")
	}

	return claims, nil
}

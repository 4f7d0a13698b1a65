package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"turbocms/internal/logger"
	"turbocms/internal/models"
	"turbocms/internal/utils"
)

// AuthService — прикладной гейт админки: логин сверяется со списком users
// внутри документа контента, успешный вход выдаёт JWT для защищённых
// маршрутов. Это не сессия внешнего провайдера аутентификации.
type AuthService struct {
	engine *SyncEngine
}

func NewAuthService(engine *SyncEngine) *AuthService {
	return &AuthService{engine: engine}
}

var (
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrUsernameTaken      = errors.New("имя пользователя уже занято")
)

// Login проверяет учётку и выдаёт access-токен.
// Исторически пароли в документе хранятся открытым текстом; bcrypt-хэши
// тоже принимаются, если пароль сохранён хэшированным.
func (s *AuthService) Login(ctx context.Context, username, password, jwtSecret string, ttl time.Duration) (*models.LoginResponse, error) {
	log := logger.WithCtx(ctx)
	log.Info("auth: попытка входа", zap.String("username", username))

	users, err := s.users()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		if !passwordMatches(password, u.Password) {
			log.Warn("auth: неверный пароль", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}

		role := u.Role
		if role == "" {
			role = "admin"
		}
		token, err := utils.GenerateToken(jwtSecret, u.Username, role, ttl)
		if err != nil {
			log.Error("auth: ошибка генерации токена", zap.Error(err))
			return nil, err
		}

		log.Info("auth: вход выполнен", zap.String("username", username), zap.String("role", role))
		return &models.LoginResponse{
			AccessToken: token,
			Username:    u.Username,
			Role:        role,
		}, nil
	}

	log.Warn("auth: пользователь не найден", zap.String("username", username))
	return nil, ErrInvalidCredentials
}

// ListUsers — пользователи админки (пароли наружу не отдаём).
func (s *AuthService) ListUsers(ctx context.Context) ([]models.SiteUser, error) {
	users, err := s.users()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// CreateUser добавляет пользователя в список users.
func (s *AuthService) CreateUser(ctx context.Context, req models.UpsertUserRequest) (*models.SiteUser, error) {
	log := logger.WithCtx(ctx)

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errors.New("логин и пароль обязательны")
	}

	users, err := s.users()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return nil, ErrUsernameTaken
		}
	}

	role := req.Role
	if role == "" {
		role = "admin"
	}
	user := models.SiteUser{
		ID:       uuid.NewString(),
		Username: username,
		Password: req.Password,
		Role:     role,
	}
	users = append(users, user)

	if err := s.engine.UpdateContent(ctx, "users", users); err != nil {
		log.Error("auth: не удалось сохранить пользователя", zap.Error(err))
		return nil, err
	}

	log.Info("auth: пользователь создан", zap.String("username", username), zap.String("role", role))
	user.Password = ""
	return &user, nil
}

// UpdateUser меняет логин/пароль/роль по id.
func (s *AuthService) UpdateUser(ctx context.Context, id string, req models.UpsertUserRequest) error {
	log := logger.WithCtx(ctx)

	users, err := s.users()
	if err != nil {
		return err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUserNotFound
	}

	if u := strings.TrimSpace(req.Username); u != "" {
		users[idx].Username = u
	}
	if req.Password != "" {
		users[idx].Password = req.Password
	}
	if req.Role != "" {
		users[idx].Role = req.Role
	}

	if err := s.engine.UpdateContent(ctx, "users", users); err != nil {
		log.Error("auth: не удалось обновить пользователя", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("auth: пользователь обновлён", zap.String("id", id))
	return nil
}

// DeleteUser убирает пользователя; последнего не трогаем, иначе в админку
// больше никто не войдёт.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)

	users, err := s.users()
	if err != nil {
		return err
	}
	if len(users) <= 1 {
		return errors.New("нельзя удалить последнего пользователя")
	}

	out := make([]models.SiteUser, 0, len(users))
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		out = append(out, u)
	}
	if !found {
		return ErrUserNotFound
	}

	if err := s.engine.UpdateContent(ctx, "users", out); err != nil {
		log.Error("auth: не удалось удалить пользователя", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("auth: пользователь удалён", zap.String("id", id))
	return nil
}

func (s *AuthService) users() ([]models.SiteUser, error) {
	v, ok := s.engine.Section("users")
	if !ok {
		return []models.SiteUser{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("сериализация users: %w", err)
	}
	var out []models.SiteUser
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("список users повреждён: %w", err)
	}
	return out, nil
}

func passwordMatches(plain, stored string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return utils.CheckPasswordHash(plain, stored)
	}
	return plain == stored
}

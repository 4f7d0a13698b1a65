package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"turbocms/internal/config"
	"turbocms/internal/logger"
	"turbocms/internal/models"
	"turbocms/internal/services"
	helpers "turbocms/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login
// @Summary      Вход в админку
// @Description  Проверка по списку users внутри документа контента
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.LoginRequest  true  "Учётные данные"
// @Success      200   {object} models.LoginResponse
// @Failure      401   {object} map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("auth: невалидный JSON логина", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	cfg, _ := config.LoadConfig()
	ttl, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil {
		ttl = 12 * time.Hour
	}

	resp, err := h.svc.Login(r.Context(), req.Username, req.Password, cfg.JWTSecret, ttl)
	if err != nil {
		// Ошибка входа показывается пользователю синхронно, без блокировок.
		helpers.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, resp)
}

// GetUsers
// @Summary      Список пользователей админки
// @Tags         users
// @Produce      json
// @Success      200 {array} models.SiteUser
// @Security     ApiKeyAuth
// @Router       /api/admin/users [get]
func (h *AuthHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		log.Error("auth: не удалось получить пользователей", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, users)
}

// CreateUser
// @Summary      Создать пользователя админки
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  models.UpsertUserRequest  true  "Данные пользователя"
// @Success      201   {object} models.SiteUser
// @Failure      400   {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/users [post]
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("auth: невалидный JSON пользователя", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	user, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	helpers.JSON(w, http.StatusCreated, user)
}

// UpdateUser
// @Summary      Обновить пользователя админки
// @Tags         users
// @Accept       json
// @Param        id    path  string  true  "ID пользователя"
// @Param        body  body  models.UpsertUserRequest  true  "Обновлённые данные"
// @Success      204   {string} string "No Content"
// @Failure      404   {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/users/{id} [patch]
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	id := mux.Vars(r)["id"]

	var req models.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("auth: невалидный JSON пользователя", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.UpdateUser(r.Context(), id, req); err != nil {
		if err == services.ErrUserNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser
// @Summary      Удалить пользователя админки
// @Tags         users
// @Param        id  path  string  true  "ID пользователя"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/users/{id} [delete]
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		if err == services.ErrUserNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error("auth: удаление пользователя не удалось", zap.String("id", id), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

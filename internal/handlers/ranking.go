package handlers

import (
	"encoding/json"
	"net/http"

	"turbocms/internal/logger"
	"turbocms/internal/models"
	"turbocms/internal/services"
	helpers "turbocms/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RankingHandler struct {
	svc *services.RankingService
}

func NewRankingHandler(svc *services.RankingService) *RankingHandler {
	return &RankingHandler{svc: svc}
}

// List
// @Summary      Рейтинг мощности
// @Description  Записи отсортированы по мощности по убыванию
// @Tags         ranking
// @Produce      json
// @Success      200 {array} models.RankingEntry
// @Router       /api/ranking [get]
func (h *RankingHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	entries, err := h.svc.List(r.Context())
	if err != nil {
		log.Error("ranking: ошибка получения рейтинга", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, entries)
}

// Create
// @Summary      Добавить запись рейтинга
// @Tags         ranking
// @Accept       json
// @Produce      json
// @Param        body  body  models.RankingEntryRequest  true  "Запись"
// @Success      201   {object} models.RankingEntry
// @Failure      400   {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/ranking [post]
func (h *RankingHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.RankingEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ranking: невалидный JSON записи", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	entry, err := h.svc.Create(r.Context(), req)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusCreated, entry)
}

// Update
// @Summary      Обновить запись рейтинга
// @Tags         ranking
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID записи"
// @Param        body  body  models.RankingEntryRequest  true  "Обновлённые данные"
// @Success      200   {object} models.RankingEntry
// @Failure      404   {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/ranking/{id} [patch]
func (h *RankingHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	id := mux.Vars(r)["id"]

	var req models.RankingEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ranking: невалидный JSON записи", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	entry, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		if err == services.ErrRankingEntryNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, entry)
}

// Delete
// @Summary      Удалить запись рейтинга
// @Tags         ranking
// @Param        id  path  string  true  "ID записи"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/ranking/{id} [delete]
func (h *RankingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if err == services.ErrRankingEntryNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

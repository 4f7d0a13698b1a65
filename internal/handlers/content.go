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

type ContentHandler struct {
	svc *services.ContentService
}

func NewContentHandler(svc *services.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// GetAll
// @Summary      Получить весь контент сайта
// @Description  Полный документ: все секции для витрины
// @Tags         content
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /api/content [get]
func (h *ContentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	log.Debug("content: запрос полного документа")

	helpers.JSON(w, http.StatusOK, h.svc.Document())
}

// GetSection
// @Summary      Получить секцию контента
// @Tags         content
// @Produce      json
// @Param        key  path  string  true  "Ключ верхнего уровня (home, ranking, ...)"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]string
// @Router       /api/content/{key} [get]
func (h *ContentHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	key := mux.Vars(r)["key"]

	section, err := h.svc.Section(key)
	if err != nil {
		log.Warn("content: секция не найдена", zap.String("key", key), zap.Error(err))
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, section)
}

// Update
// @Summary      Правка контента по пути
// @Description  Единственная воронка мутаций: точечный путь + новое значение
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        body  body  models.UpdateContentRequest  true  "Путь и значение"
// @Success      204   {string} string "No Content"
// @Failure      400   {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/content [patch]
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("content: невалидный JSON правки", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.Update(r.Context(), req.Path, req.Value); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type saveHotspotsRequest struct {
	Hotspots []models.Hotspot `json:"hotspots"`
}

// SaveHotspots
// @Summary      Сохранить хотспоты баннера
// @Description  Вызывается один раз по окончании перетаскивания
// @Tags         content
// @Accept       json
// @Param        id    path  string  true  "ID баннера"
// @Param        body  body  handlers.saveHotspotsRequest  true  "Хотспоты"
// @Success      204   {string} string "No Content"
// @Failure      404   {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/banners/{id}/hotspots [put]
func (h *ContentHandler) SaveHotspots(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	bannerID := mux.Vars(r)["id"]

	var req saveHotspotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("content: невалидный JSON хотспотов", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.SaveHotspots(r.Context(), bannerID, req.Hotspots); err != nil {
		if err == services.ErrBannerNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BeginHotspotEdit
// @Summary      Открыть сессию правки хотспотов
// @Tags         content
// @Param        id  path  string  true  "ID баннера"
// @Success      204 {string} string "No Content"
// @Security     ApiKeyAuth
// @Router       /api/admin/banners/{id}/hotspots/edit [post]
func (h *ContentHandler) BeginHotspotEdit(w http.ResponseWriter, r *http.Request) {
	h.svc.BeginHotspotEdit(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// EndHotspotEdit
// @Summary      Закрыть сессию правки хотспотов
// @Tags         content
// @Param        id  path  string  true  "ID баннера"
// @Success      204 {string} string "No Content"
// @Security     ApiKeyAuth
// @Router       /api/admin/banners/{id}/hotspots/edit [delete]
func (h *ContentHandler) EndHotspotEdit(w http.ResponseWriter, r *http.Request) {
	h.svc.EndHotspotEdit()
	w.WriteHeader(http.StatusNoContent)
}

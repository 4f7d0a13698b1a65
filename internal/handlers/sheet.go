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

type SheetHandler struct {
	svc *services.SheetService
}

func NewSheetHandler(svc *services.SheetService) *SheetHandler {
	return &SheetHandler{svc: svc}
}

// ListSheets
// @Summary      Сохранённые технические листы
// @Tags         sheets
// @Produce      json
// @Success      200 {array} models.SavedSheet
// @Security     ApiKeyAuth
// @Router       /api/admin/sheets [get]
func (h *SheetHandler) ListSheets(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	sheets, err := h.svc.ListSheets(r.Context())
	if err != nil {
		log.Error("sheet: ошибка получения листов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, sheets)
}

// SaveSheet
// @Summary      Сохранить технический лист
// @Description  Пустой id — новый лист, иначе upsert
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        body  body  models.SavedSheet  true  "Лист"
// @Success      200   {object} models.SavedSheet
// @Security     ApiKeyAuth
// @Router       /api/admin/sheets [post]
func (h *SheetHandler) SaveSheet(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var sheet models.SavedSheet
	if err := json.NewDecoder(r.Body).Decode(&sheet); err != nil {
		log.Warn("sheet: невалидный JSON листа", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	saved, err := h.svc.SaveSheet(r.Context(), sheet)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, saved)
}

// DeleteSheet
// @Summary      Удалить технический лист
// @Tags         sheets
// @Param        id  path  string  true  "ID листа"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/sheets/{id} [delete]
func (h *SheetHandler) DeleteSheet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.DeleteSheet(r.Context(), id); err != nil {
		if err == services.ErrSheetNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFolders
// @Summary      Папки листов
// @Tags         sheets
// @Produce      json
// @Success      200 {array} models.Folder
// @Security     ApiKeyAuth
// @Router       /api/admin/folders [get]
func (h *SheetHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	folders, err := h.svc.ListFolders(r.Context())
	if err != nil {
		log.Error("sheet: ошибка получения папок", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, folders)
}

type createFolderRequest struct {
	Name string `json:"name"`
}

// CreateFolder
// @Summary      Создать папку листов
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        body  body  handlers.createFolderRequest  true  "Имя папки"
// @Success      201   {object} models.Folder
// @Security     ApiKeyAuth
// @Router       /api/admin/folders [post]
func (h *SheetHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("sheet: невалидный JSON папки", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	folder, err := h.svc.CreateFolder(r.Context(), req.Name)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusCreated, folder)
}

// DeleteFolder
// @Summary      Удалить папку листов
// @Description  Листы из папки переезжают в корень
// @Tags         sheets
// @Param        id  path  string  true  "ID папки"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/folders/{id} [delete]
func (h *SheetHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.DeleteFolder(r.Context(), id); err != nil {
		if err == services.ErrFolderNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type saveTemplateRequest struct {
	Layout     []models.SheetField `json:"layout"`
	Background string              `json:"background"`
}

// SaveTemplate
// @Summary      Сохранить шаблон генератора листов
// @Tags         sheets
// @Accept       json
// @Param        body  body  handlers.saveTemplateRequest  true  "Раскладка"
// @Success      204   {string} string "No Content"
// @Security     ApiKeyAuth
// @Router       /api/admin/techsheet [put]
func (h *SheetHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req saveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("sheet: невалидный JSON шаблона", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.SaveTemplate(r.Context(), req.Layout, req.Background); err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

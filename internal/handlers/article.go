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

type ArticleHandler struct {
	svc    *services.ArticleService
	editor *services.EditorService
}

func NewArticleHandler(svc *services.ArticleService, editor *services.EditorService) *ArticleHandler {
	return &ArticleHandler{svc: svc, editor: editor}
}

type articleEnvelope struct {
	SubTab  string         `json:"subTab,omitempty"`
	Article models.Article `json:"article"`
}

type editorOpenResponse struct {
	SessionID string         `json:"session_id"`
	Article   models.Article `json:"article"`
}

// ListPublished
// @Summary      Опубликованные проекты
// @Tags         articles
// @Produce      json
// @Param        subTab  query  string  false  "Под-вкладка"
// @Success      200 {array} models.Article
// @Router       /api/projects [get]
func (h *ArticleHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	subTab := r.URL.Query().Get("subTab")

	list, err := h.svc.ListPublished(r.Context(), subTab)
	if err != nil {
		log.Error("article: ошибка получения списка", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, list)
}

// GetPublished
// @Summary      Один опубликованный проект
// @Tags         articles
// @Produce      json
// @Param        id      path   string  true   "ID статьи"
// @Param        subTab  query  string  false  "Под-вкладка"
// @Success      200 {object} models.Article
// @Failure      404 {object} map[string]string
// @Router       /api/projects/{id} [get]
func (h *ArticleHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	id := mux.Vars(r)["id"]

	a, err := h.svc.GetPublished(r.Context(), r.URL.Query().Get("subTab"), id)
	if err != nil {
		log.Warn("article: статья не найдена", zap.String("id", id))
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, a)
}

// ListDrafts
// @Summary      Черновики проектов
// @Tags         articles
// @Produce      json
// @Param        subTab  query  string  false  "Под-вкладка"
// @Success      200 {array} models.Article
// @Security     ApiKeyAuth
// @Router       /api/admin/articles/drafts [get]
func (h *ArticleHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	list, err := h.svc.ListDrafts(r.Context(), r.URL.Query().Get("subTab"))
	if err != nil {
		log.Error("article: ошибка получения черновиков", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, list)
}

// GetForEdit
// @Summary      Получить статью для редактирования
// @Description  Живой черновик авторитетнее опубликованной версии
// @Tags         articles
// @Produce      json
// @Param        id      path   string  true   "ID статьи"
// @Param        subTab  query  string  false  "Под-вкладка"
// @Success      200 {object} models.Article
// @Failure      404 {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/articles/{id}/edit [get]
func (h *ArticleHandler) GetForEdit(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	id := mux.Vars(r)["id"]

	a, err := h.svc.GetForEdit(r.Context(), r.URL.Query().Get("subTab"), id)
	if err != nil {
		log.Warn("article: статья для правки не найдена", zap.String("id", id))
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, a)
}

// SaveDraft
// @Summary      Сохранить черновик
// @Tags         articles
// @Accept       json
// @Param        body  body  handlers.articleEnvelope  true  "Статья"
// @Success      204   {string} string "No Content"
// @Security     ApiKeyAuth
// @Router       /api/admin/articles/draft [post]
func (h *ArticleHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req articleEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("article: невалидный JSON черновика", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.SaveDraft(r.Context(), req.SubTab, &req.Article); err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Publish
// @Summary      Опубликовать статью
// @Description  Убирает из черновиков и добавляет в опубликованные одной записью
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        body  body  handlers.articleEnvelope  true  "Статья"
// @Success      200   {object} models.Article
// @Security     ApiKeyAuth
// @Router       /api/admin/articles/publish [post]
func (h *ArticleHandler) Publish(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req articleEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("article: невалидный JSON публикации", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.Publish(r.Context(), req.SubTab, &req.Article); err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, req.Article)
}

// Delete
// @Summary      Удалить статью
// @Description  Убирает из черновиков и опубликованных безусловно
// @Tags         articles
// @Param        id      path   string  true   "ID статьи"
// @Param        subTab  query  string  false  "Под-вкладка"
// @Success      204 {string} string "No Content"
// @Security     ApiKeyAuth
// @Router       /api/admin/articles/{id} [delete]
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.Delete(r.Context(), r.URL.Query().Get("subTab"), id); err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OpenEditor
// @Summary      Открыть сессию редактора
// @Description  Создаёт статью (или берёт существующую) и включает автосохранение
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        body  body  models.CreateArticleRequest  true  "Заготовка статьи"
// @Success      201   {object} handlers.editorOpenResponse
// @Security     ApiKeyAuth
// @Router       /api/admin/editor [post]
func (h *ArticleHandler) OpenEditor(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("article: невалидный JSON заготовки", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	a := h.svc.NewArticle(r.Context(), req)
	sessionID := h.editor.Open(r.Context(), req.SubTab, *a)

	helpers.JSON(w, http.StatusCreated, editorOpenResponse{SessionID: sessionID, Article: *a})
}

// OpenEditorExisting
// @Summary      Открыть редактор для существующей статьи
// @Tags         editor
// @Produce      json
// @Param        id      path   string  true   "ID статьи"
// @Param        subTab  query  string  false  "Под-вкладка"
// @Success      201 {object} handlers.editorOpenResponse
// @Failure      404 {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/editor/{id}/open [post]
func (h *ArticleHandler) OpenEditorExisting(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	id := mux.Vars(r)["id"]
	subTab := r.URL.Query().Get("subTab")

	a, err := h.svc.GetForEdit(r.Context(), subTab, id)
	if err != nil {
		log.Warn("article: статья для редактора не найдена", zap.String("id", id))
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	}

	sessionID := h.editor.Open(r.Context(), subTab, *a)
	helpers.JSON(w, http.StatusCreated, editorOpenResponse{SessionID: sessionID, Article: *a})
}

// UpdateEditor
// @Summary      Обновить рабочую копию в сессии редактора
// @Tags         editor
// @Accept       json
// @Param        id    path  string          true  "ID сессии"
// @Param        body  body  models.Article  true  "Рабочая копия"
// @Success      204   {string} string "No Content"
// @Failure      404   {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/editor/{id} [put]
func (h *ArticleHandler) UpdateEditor(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	sessionID := mux.Vars(r)["id"]

	var a models.Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		log.Warn("article: невалидный JSON рабочей копии", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.editor.Update(r.Context(), sessionID, a); err != nil {
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CloseEditor
// @Summary      Закрыть сессию редактора
// @Description  Досылает черновик и останавливает автосохранение
// @Tags         editor
// @Param        id  path  string  true  "ID сессии"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/editor/{id} [delete]
func (h *ArticleHandler) CloseEditor(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.editor.Close(r.Context(), sessionID); err != nil {
		if err == services.ErrSessionNotFound {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

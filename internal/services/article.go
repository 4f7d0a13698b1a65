package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"turbocms/internal/logger"
	"turbocms/internal/models"
)

// ArticleService — жизненный цикл проектов (статей):
// новый → черновик → опубликован. Черновик — авторитетная копия в работе:
// редактирование при живом черновике открывает его, а не публикацию.
type ArticleService struct {
	engine *SyncEngine
	policy *bluemonday.Policy
}

func NewArticleService(engine *SyncEngine) *ArticleService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img", "iframe")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("style").Globally()
	return &ArticleService{engine: engine, policy: p}
}

var ErrArticleNotFound = errors.New("статья не найдена")

// publishedKey / draftKey — ключи списков с учётом под-вкладки.
func publishedKey(subTab string) string {
	if subTab == "" {
		return "projects"
	}
	return "projects_" + subTab
}

func draftKey(subTab string) string {
	if subTab == "" {
		return "projectsDraft"
	}
	return "projectsDraft_" + subTab
}

// NewArticle создаёт статью в памяти (состояние «не сохранено»).
// В списки попадёт только после первого автосейва или явного SaveDraft.
func (s *ArticleService) NewArticle(ctx context.Context, req models.CreateArticleRequest) *models.Article {
	log := logger.WithCtx(ctx)

	a := &models.Article{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		Date:         time.Now().Format("2006-01-02"),
		Excerpt:      req.Excerpt,
		Banner:       req.Banner,
		CoverPhoto:   req.CoverPhoto,
		CategoryTags: req.CategoryTags,
		Blocks:       s.sanitizeBlocks(req.Blocks),
		Published:    false,
	}
	if a.Blocks == nil {
		a.Blocks = []models.Block{}
	}

	log.Info("article: создана новая статья", zap.String("id", a.ID), zap.String("title", a.Title))
	return a
}

// SaveDraft кладёт статью в список черновиков (upsert по id).
// Запись немедленная: черновик нельзя потерять из-за дебаунса.
func (s *ArticleService) SaveDraft(ctx context.Context, subTab string, a *models.Article) error {
	log := logger.WithCtx(ctx)

	a.Blocks = s.sanitizeBlocks(a.Blocks)
	a.Published = false

	drafts, err := s.list(draftKey(subTab))
	if err != nil {
		return err
	}
	drafts = upsert(drafts, *a)

	if err := s.engine.UpdateContent(ctx, draftKey(subTab), drafts); err != nil {
		log.Error("article: не удалось сохранить черновик", zap.String("id", a.ID), zap.Error(err))
		return err
	}

	log.Info("article: черновик сохранён", zap.String("id", a.ID), zap.String("sub_tab", subTab))
	return nil
}

// Publish переносит статью в опубликованные и удаляет черновик —
// одна логическая операция, оба списка уходят одним патчем.
func (s *ArticleService) Publish(ctx context.Context, subTab string, a *models.Article) error {
	log := logger.WithCtx(ctx)

	a.Blocks = s.sanitizeBlocks(a.Blocks)
	a.Published = true
	if a.Date == "" {
		a.Date = time.Now().Format("2006-01-02")
	}

	published, err := s.list(publishedKey(subTab))
	if err != nil {
		return err
	}
	drafts, err := s.list(draftKey(subTab))
	if err != nil {
		return err
	}

	published = upsert(published, *a)
	drafts = remove(drafts, a.ID)

	err = s.engine.UpdateContentMulti(ctx, []PathValue{
		{Path: publishedKey(subTab), Value: published},
		{Path: draftKey(subTab), Value: drafts},
	})
	if err != nil {
		log.Error("article: публикация не удалась", zap.String("id", a.ID), zap.Error(err))
		return err
	}

	log.Info("article: статья опубликована",
		zap.String("id", a.ID), zap.String("title", a.Title), zap.String("sub_tab", subTab))
	return nil
}

// Delete убирает статью из обоих списков безусловно.
func (s *ArticleService) Delete(ctx context.Context, subTab, id string) error {
	log := logger.WithCtx(ctx)

	published, err := s.list(publishedKey(subTab))
	if err != nil {
		return err
	}
	drafts, err := s.list(draftKey(subTab))
	if err != nil {
		return err
	}

	err = s.engine.UpdateContentMulti(ctx, []PathValue{
		{Path: publishedKey(subTab), Value: remove(published, id)},
		{Path: draftKey(subTab), Value: remove(drafts, id)},
	})
	if err != nil {
		log.Error("article: удаление не удалось", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("article: статья удалена", zap.String("id", id), zap.String("sub_tab", subTab))
	return nil
}

// GetForEdit возвращает копию для редактирования: при живом черновике — его,
// иначе опубликованную версию.
func (s *ArticleService) GetForEdit(ctx context.Context, subTab, id string) (*models.Article, error) {
	drafts, err := s.list(draftKey(subTab))
	if err != nil {
		return nil, err
	}
	for i := range drafts {
		if drafts[i].ID == id {
			return &drafts[i], nil
		}
	}

	published, err := s.list(publishedKey(subTab))
	if err != nil {
		return nil, err
	}
	for i := range published {
		if published[i].ID == id {
			return &published[i], nil
		}
	}
	return nil, ErrArticleNotFound
}

// ListPublished — опубликованные статьи под-вкладки.
func (s *ArticleService) ListPublished(ctx context.Context, subTab string) ([]models.Article, error) {
	return s.list(publishedKey(subTab))
}

// ListDrafts — черновики под-вкладки.
func (s *ArticleService) ListDrafts(ctx context.Context, subTab string) ([]models.Article, error) {
	return s.list(draftKey(subTab))
}

// GetPublished — одна опубликованная статья.
func (s *ArticleService) GetPublished(ctx context.Context, subTab, id string) (*models.Article, error) {
	published, err := s.list(publishedKey(subTab))
	if err != nil {
		return nil, err
	}
	for i := range published {
		if published[i].ID == id {
			return &published[i], nil
		}
	}
	return nil, ErrArticleNotFound
}

func (s *ArticleService) list(key string) ([]models.Article, error) {
	v, ok := s.engine.Section(key)
	if !ok {
		return []models.Article{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("сериализация списка %s: %w", key, err)
	}
	var out []models.Article
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("список %s повреждён: %w", key, err)
	}
	if out == nil {
		out = []models.Article{}
	}
	return out, nil
}

// sanitizeBlocks чистит rich-HTML текстовых блоков и подписи к фото.
func (s *ArticleService) sanitizeBlocks(blocks []models.Block) []models.Block {
	for i := range blocks {
		if blocks[i].ID == "" {
			blocks[i].ID = uuid.NewString()
		}
		if blocks[i].HTML != "" {
			blocks[i].HTML = s.policy.Sanitize(blocks[i].HTML)
		}
		if blocks[i].SideText != "" {
			blocks[i].SideText = s.policy.Sanitize(blocks[i].SideText)
		}
	}
	return blocks
}

func upsert(list []models.Article, a models.Article) []models.Article {
	for i := range list {
		if list[i].ID == a.ID {
			list[i] = a
			return list
		}
	}
	return append(list, a)
}

func remove(list []models.Article, id string) []models.Article {
	out := make([]models.Article, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

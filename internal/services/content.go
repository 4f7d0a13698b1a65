package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"turbocms/internal/content"
	"turbocms/internal/logger"
	"turbocms/internal/models"
)

// ContentService — чтение документа и общая воронка правок из админки.
type ContentService struct {
	engine *SyncEngine
}

func NewContentService(engine *SyncEngine) *ContentService {
	return &ContentService{engine: engine}
}

// Document — полный документ для витрины.
func (s *ContentService) Document() content.Document {
	return s.engine.Document()
}

// Section — одна секция верхнего уровня.
func (s *ContentService) Section(key string) (any, error) {
	if !content.KnownTopKey(key) {
		return nil, fmt.Errorf("неизвестная секция %q", key)
	}
	v, ok := s.engine.Section(key)
	if !ok {
		return nil, fmt.Errorf("секция %q отсутствует", key)
	}
	return v, nil
}

// Update — точечная правка по пути.
func (s *ContentService) Update(ctx context.Context, path string, value any) error {
	log := logger.WithCtx(ctx)
	log.Info("content: правка по пути", zap.String("path", path))

	if err := s.engine.UpdateContent(ctx, path, value); err != nil {
		log.Warn("content: правка отклонена", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// --- хотспоты баннеров ---

var ErrBannerNotFound = errors.New("баннер не найден")

// BeginHotspotEdit / EndHotspotEdit — границы сессии перетаскивания.
func (s *ContentService) BeginHotspotEdit(bannerID string) {
	s.engine.BeginHotspotEdit(bannerID)
}

func (s *ContentService) EndHotspotEdit() {
	s.engine.EndHotspotEdit()
}

// SaveHotspots фиксирует хотспоты баннера по окончании перетаскивания
// (одна запись на drag-end, промежуточные кадры не персистятся).
func (s *ContentService) SaveHotspots(ctx context.Context, bannerID string, hotspots []models.Hotspot) error {
	log := logger.WithCtx(ctx)
	log.Info("content: сохранение хотспотов",
		zap.String("banner_id", bannerID), zap.Int("count", len(hotspots)))

	doc := s.engine.Document()
	banners, ok := content.GetPath(doc, "header.banners")
	if !ok {
		return ErrBannerNotFound
	}
	list, ok := banners.([]any)
	if !ok {
		return ErrBannerNotFound
	}

	idx := -1
	for i, b := range list {
		m, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if m["id"] == bannerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Warn("content: баннер для хотспотов не найден", zap.String("banner_id", bannerID))
		return ErrBannerNotFound
	}

	updated, _ := list[idx].(map[string]any)
	updated["hotspots"] = content.Normalize(hotspots)
	list[idx] = updated

	return s.engine.UpdateContent(ctx, "header.banners", list)
}

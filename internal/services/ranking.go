package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"turbocms/internal/logger"
	"turbocms/internal/models"
)

// RankingService — таблица рейтинга мощности поверх ranking.entries.
// Порядок не хранится: выдача всегда сортируется по мощности по убыванию.
type RankingService struct {
	engine *SyncEngine
}

func NewRankingService(engine *SyncEngine) *RankingService {
	return &RankingService{engine: engine}
}

var ErrRankingEntryNotFound = errors.New("запись рейтинга не найдена")

const rankingEntriesPath = "ranking.entries"

// List — записи, отсортированные по мощности по убыванию.
func (s *RankingService) List(ctx context.Context) ([]models.RankingEntry, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Power > entries[j].Power
	})
	return entries, nil
}

// Create добавляет запись.
func (s *RankingService) Create(ctx context.Context, req models.RankingEntryRequest) (*models.RankingEntry, error) {
	log := logger.WithCtx(ctx)

	entry := models.RankingEntry{
		ID:     uuid.NewString(),
		Car:    req.Car,
		Owner:  req.Owner,
		Power:  req.Power,
		Torque: req.Torque,
		Media:  req.Media,
		Date:   req.Date,
		Dyno:   req.Dyno,
	}
	if entry.Date == "" {
		entry.Date = time.Now().Format("2006-01-02")
	}

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)

	if err := s.engine.UpdateContent(ctx, rankingEntriesPath, entries); err != nil {
		log.Error("ranking: не удалось сохранить запись", zap.Error(err))
		return nil, err
	}

	log.Info("ranking: запись добавлена",
		zap.String("id", entry.ID), zap.String("car", entry.Car), zap.Float64("power", entry.Power))
	return &entry, nil
}

// Update заменяет запись по id.
func (s *RankingService) Update(ctx context.Context, id string, req models.RankingEntryRequest) (*models.RankingEntry, error) {
	log := logger.WithCtx(ctx)

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range entries {
		if entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Warn("ranking: запись для обновления не найдена", zap.String("id", id))
		return nil, ErrRankingEntryNotFound
	}

	entries[idx] = models.RankingEntry{
		ID:     id,
		Car:    req.Car,
		Owner:  req.Owner,
		Power:  req.Power,
		Torque: req.Torque,
		Media:  req.Media,
		Date:   req.Date,
		Dyno:   req.Dyno,
	}

	if err := s.engine.UpdateContent(ctx, rankingEntriesPath, entries); err != nil {
		log.Error("ranking: не удалось обновить запись", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("ranking: запись обновлена", zap.String("id", id))
	out := entries[idx]
	return &out, nil
}

// Delete убирает запись по id.
func (s *RankingService) Delete(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)

	entries, err := s.entries()
	if err != nil {
		return err
	}

	out := make([]models.RankingEntry, 0, len(entries))
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		log.Warn("ranking: запись для удаления не найдена", zap.String("id", id))
		return ErrRankingEntryNotFound
	}

	if err := s.engine.UpdateContent(ctx, rankingEntriesPath, out); err != nil {
		log.Error("ranking: не удалось удалить запись", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("ranking: запись удалена", zap.String("id", id))
	return nil
}

func (s *RankingService) entries() ([]models.RankingEntry, error) {
	v, ok := s.engine.GetPath(rankingEntriesPath)
	if !ok {
		return []models.RankingEntry{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("сериализация ranking.entries: %w", err)
	}
	var out []models.RankingEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("ranking.entries повреждён: %w", err)
	}
	if out == nil {
		out = []models.RankingEntry{}
	}
	return out, nil
}

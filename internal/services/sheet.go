package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"turbocms/internal/logger"
	"turbocms/internal/models"
)

// SheetService — сохранённые технические листы и папки.
// Все ключи уходят в партицию sheets; сам PDF рендерится на клиенте.
type SheetService struct {
	engine *SyncEngine
}

func NewSheetService(engine *SyncEngine) *SheetService {
	return &SheetService{engine: engine}
}

var (
	ErrSheetNotFound  = errors.New("лист не найден")
	ErrFolderNotFound = errors.New("папка не найдена")
)

// ListSheets — все сохранённые листы.
func (s *SheetService) ListSheets(ctx context.Context) ([]models.SavedSheet, error) {
	var out []models.SavedSheet
	if err := s.decode("savedSheets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSheet — upsert листа (пустой id = новый лист).
func (s *SheetService) SaveSheet(ctx context.Context, sheet models.SavedSheet) (*models.SavedSheet, error) {
	log := logger.WithCtx(ctx)

	if sheet.ID == "" {
		sheet.ID = uuid.NewString()
		sheet.CreatedAt = time.Now().Format(time.RFC3339)
	}
	if sheet.Fields == nil {
		sheet.Fields = []models.SheetField{}
	}

	sheets, err := s.ListSheets(ctx)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range sheets {
		if sheets[i].ID == sheet.ID {
			sheets[i] = sheet
			replaced = true
			break
		}
	}
	if !replaced {
		sheets = append(sheets, sheet)
	}

	if err := s.engine.UpdateContent(ctx, "savedSheets", sheets); err != nil {
		log.Error("sheet: сохранение листа не удалось", zap.String("id", sheet.ID), zap.Error(err))
		return nil, err
	}

	log.Info("sheet: лист сохранён", zap.String("id", sheet.ID), zap.String("name", sheet.Name))
	return &sheet, nil
}

// DeleteSheet удаляет лист.
func (s *SheetService) DeleteSheet(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)

	sheets, err := s.ListSheets(ctx)
	if err != nil {
		return err
	}

	out := make([]models.SavedSheet, 0, len(sheets))
	found := false
	for _, sh := range sheets {
		if sh.ID == id {
			found = true
			continue
		}
		out = append(out, sh)
	}
	if !found {
		return ErrSheetNotFound
	}

	if err := s.engine.UpdateContent(ctx, "savedSheets", out); err != nil {
		log.Error("sheet: удаление листа не удалось", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("sheet: лист удалён", zap.String("id", id))
	return nil
}

// ListFolders — папки листов.
func (s *SheetService) ListFolders(ctx context.Context) ([]models.Folder, error) {
	var out []models.Folder
	if err := s.decode("folders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFolder добавляет папку.
func (s *SheetService) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	log := logger.WithCtx(ctx)

	folder := models.Folder{ID: uuid.NewString(), Name: name}

	folders, err := s.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	folders = append(folders, folder)

	if err := s.engine.UpdateContent(ctx, "folders", folders); err != nil {
		log.Error("sheet: создание папки не удалось", zap.Error(err))
		return nil, err
	}

	log.Info("sheet: папка создана", zap.String("id", folder.ID), zap.String("name", name))
	return &folder, nil
}

// DeleteFolder удаляет папку; листы из неё переезжают в корень.
func (s *SheetService) DeleteFolder(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)

	folders, err := s.ListFolders(ctx)
	if err != nil {
		return err
	}

	out := make([]models.Folder, 0, len(folders))
	found := false
	for _, f := range folders {
		if f.ID == id {
			found = true
			continue
		}
		out = append(out, f)
	}
	if !found {
		return ErrFolderNotFound
	}

	sheets, err := s.ListSheets(ctx)
	if err != nil {
		return err
	}
	for i := range sheets {
		if sheets[i].FolderID == id {
			sheets[i].FolderID = ""
		}
	}

	err = s.engine.UpdateContentMulti(ctx, []PathValue{
		{Path: "folders", Value: out},
		{Path: "savedSheets", Value: sheets},
	})
	if err != nil {
		log.Error("sheet: удаление папки не удалось", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("sheet: папка удалена", zap.String("id", id))
	return nil
}

// SaveTemplate сохраняет раскладку генератора (techSheet).
func (s *SheetService) SaveTemplate(ctx context.Context, layout []models.SheetField, background string) error {
	log := logger.WithCtx(ctx)

	err := s.engine.UpdateContent(ctx, "techSheet", map[string]any{
		"layout":     layout,
		"background": background,
	})
	if err != nil {
		log.Error("sheet: сохранение шаблона не удалось", zap.Error(err))
		return err
	}

	log.Info("sheet: шаблон сохранён", zap.Int("fields", len(layout)))
	return nil
}

func (s *SheetService) decode(key string, dst any) error {
	v, ok := s.engine.Section(key)
	if !ok {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("сериализация %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("секция %s повреждена: %w", key, err)
	}
	return nil
}

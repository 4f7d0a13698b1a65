package services

import (
	"context"
	"testing"
	"time"

	"turbocms/internal/models"
)

func newTestSheetService() *SheetService {
	return NewSheetService(NewSyncEngine(nil, time.Second))
}

func TestSaveSheetAssignsID(t *testing.T) {
	svc := newTestSheetService()
	ctx := context.Background()

	saved, err := svc.SaveSheet(ctx, models.SavedSheet{Name: "Supra — замер"})
	if err != nil {
		t.Fatalf("SaveSheet: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("новый лист должен получить id")
	}
	if saved.CreatedAt == "" {
		t.Fatal("новый лист должен получить дату создания")
	}

	// Сохранение с тем же id заменяет, а не дублирует.
	saved.Name = "Supra — повторный замер"
	if _, err := svc.SaveSheet(ctx, *saved); err != nil {
		t.Fatalf("повторный SaveSheet: %v", err)
	}
	sheets, _ := svc.ListSheets(ctx)
	if len(sheets) != 1 {
		t.Fatalf("upsert не должен создавать дубликат: %d", len(sheets))
	}
	if sheets[0].Name != "Supra — повторный замер" {
		t.Fatalf("лист не обновился: %q", sheets[0].Name)
	}
}

func TestDeleteSheet(t *testing.T) {
	svc := newTestSheetService()
	ctx := context.Background()

	saved, _ := svc.SaveSheet(ctx, models.SavedSheet{Name: "Удаляемый"})
	if err := svc.DeleteSheet(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteSheet: %v", err)
	}
	if err := svc.DeleteSheet(ctx, saved.ID); err != ErrSheetNotFound {
		t.Fatalf("повторное удаление: ожидалась ErrSheetNotFound, получено %v", err)
	}
}

func TestDeleteFolderMovesSheetsToRoot(t *testing.T) {
	svc := newTestSheetService()
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, "Замеры 2026")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if _, err := svc.SaveSheet(ctx, models.SavedSheet{Name: "В папке", FolderID: folder.ID}); err != nil {
		t.Fatalf("SaveSheet: %v", err)
	}

	if err := svc.DeleteFolder(ctx, folder.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	folders, _ := svc.ListFolders(ctx)
	if len(folders) != 0 {
		t.Fatalf("папка должна исчезнуть: %d", len(folders))
	}
	sheets, _ := svc.ListSheets(ctx)
	if len(sheets) != 1 {
		t.Fatalf("лист должен пережить удаление папки: %d", len(sheets))
	}
	if sheets[0].FolderID != "" {
		t.Fatalf("лист должен переехать в корень, folderId: %q", sheets[0].FolderID)
	}

	if err := svc.DeleteFolder(ctx, folder.ID); err != ErrFolderNotFound {
		t.Fatalf("ожидалась ErrFolderNotFound, получено: %v", err)
	}
}

func TestSaveTemplate(t *testing.T) {
	svc := newTestSheetService()
	engine := svc.engine
	ctx := context.Background()

	layout := []models.SheetField{{ID: "f1", X: 10, Y: 20, W: 30, H: 5,
		Text: models.StyledText{Content: "Мощность"}}}
	if err := svc.SaveTemplate(ctx, layout, "bg.png"); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}

	v, ok := engine.GetPath("techSheet.background")
	if !ok || v != "bg.png" {
		t.Fatalf("фон шаблона не сохранился: %v", v)
	}
}

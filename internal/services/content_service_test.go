package services

import (
	"context"
	"testing"
	"time"

	"turbocms/internal/content"
	"turbocms/internal/models"
)

func newTestContentService() (*ContentService, *SyncEngine) {
	engine := NewSyncEngine(nil, time.Second)
	return NewContentService(engine), engine
}

func TestSectionUnknownKey(t *testing.T) {
	svc, _ := newTestContentService()

	if _, err := svc.Section("нет-такой-секции"); err == nil {
		t.Fatal("неизвестная секция должна давать ошибку")
	}
	if _, err := svc.Section("home"); err != nil {
		t.Fatalf("известная секция должна читаться: %v", err)
	}
}

func TestUpdateRejectsUnknownPath(t *testing.T) {
	svc, _ := newTestContentService()

	if err := svc.Update(context.Background(), "чужой.путь", "x"); err == nil {
		t.Fatal("путь с неизвестным верхним ключом должен отклоняться")
	}
}

func TestSaveHotspotsWritesBannerOnce(t *testing.T) {
	store := newFakeStore()
	for _, p := range content.Partitions() {
		store.docs[string(p)] = content.DefaultsFor(p)
	}
	engine := NewSyncEngine(store, 20*time.Millisecond)
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer engine.Stop(context.Background())

	svc := NewContentService(engine)
	ctx := context.Background()

	hotspots := []models.Hotspot{
		{ID: "h1", X: 12.5, Y: 40, W: 25, H: 10, Link: "/projects/a1"},
	}
	if err := svc.SaveHotspots(ctx, "banner-1", hotspots); err != nil {
		t.Fatalf("SaveHotspots: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for store.patchCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("запись хотспотов так и не ушла")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)
	if store.patchCount() != 1 {
		t.Fatalf("хотспоты должны уйти одной записью: %d", store.patchCount())
	}

	patch, _ := store.lastPatch()
	if patch.docID != "main" {
		t.Fatalf("хотспоты живут в партиции main, патч ушёл в: %s", patch.docID)
	}
	header, ok := patch.fields["header"].(map[string]any)
	if !ok {
		t.Fatalf("в патче должен быть header целиком: %+v", patch.fields)
	}
	banners := header["banners"].([]any)
	banner := banners[0].(map[string]any)
	saved := banner["hotspots"].([]any)
	if len(saved) != 1 {
		t.Fatalf("ожидался один хотспот: %+v", saved)
	}

	if err := svc.SaveHotspots(ctx, "нет-такого-баннера", hotspots); err != ErrBannerNotFound {
		t.Fatalf("ожидалась ErrBannerNotFound, получено: %v", err)
	}
}

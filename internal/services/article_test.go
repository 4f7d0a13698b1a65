package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"turbocms/internal/models"
)

func newTestArticleService() (*ArticleService, *SyncEngine) {
	engine := NewSyncEngine(nil, time.Second)
	return NewArticleService(engine), engine
}

func TestSaveDraftUpsert(t *testing.T) {
	svc, _ := newTestArticleService()
	ctx := context.Background()

	a := svc.NewArticle(ctx, models.CreateArticleRequest{Title: "Supra A80"})
	if a.ID == "" {
		t.Fatal("новая статья должна получить id")
	}
	if a.Published {
		t.Fatal("новая статья не должна быть опубликованной")
	}

	if err := svc.SaveDraft(ctx, "", a); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	drafts, err := svc.ListDrafts(ctx, "")
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != a.ID {
		t.Fatalf("ожидался один черновик %s, получено %+v", a.ID, drafts)
	}

	// Повторное сохранение того же id не плодит дубликат.
	a.Title = "Supra A80 — Stage 3"
	if err := svc.SaveDraft(ctx, "", a); err != nil {
		t.Fatalf("повторный SaveDraft: %v", err)
	}
	drafts, _ = svc.ListDrafts(ctx, "")
	if len(drafts) != 1 {
		t.Fatalf("upsert не должен создавать дубликат, черновиков: %d", len(drafts))
	}
	if drafts[0].Title != "Supra A80 — Stage 3" {
		t.Fatalf("черновик не обновился: %q", drafts[0].Title)
	}
}

func TestPublishMovesArticleBetweenLists(t *testing.T) {
	svc, _ := newTestArticleService()
	ctx := context.Background()

	a := svc.NewArticle(ctx, models.CreateArticleRequest{Title: "BMW M3 E46"})
	if err := svc.SaveDraft(ctx, "", a); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := svc.Publish(ctx, "", a); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	drafts, _ := svc.ListDrafts(ctx, "")
	if len(drafts) != 0 {
		t.Fatalf("после публикации черновик должен исчезнуть, осталось: %d", len(drafts))
	}

	published, _ := svc.ListPublished(ctx, "")
	if len(published) != 1 {
		t.Fatalf("ожидалась одна опубликованная статья, получено: %d", len(published))
	}
	if !published[0].Published {
		t.Fatal("опубликованная статья должна нести published=true")
	}
}

// Оба списка публикации уходят в хранилище одним патчем.
func TestPublishSingleLogicalWrite(t *testing.T) {
	store := newFakeStore()
	engine := NewSyncEngine(store, time.Second)
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer engine.Stop(context.Background())

	svc := NewArticleService(engine)
	ctx := context.Background()

	a := svc.NewArticle(ctx, models.CreateArticleRequest{Title: "Skyline R34"})
	if err := svc.SaveDraft(ctx, "", a); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	before := store.patchCount()
	if err := svc.Publish(ctx, "", a); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := store.patchCount() - before; got != 1 {
		t.Fatalf("публикация должна уйти одним патчем, ушло: %d", got)
	}

	patch, _ := store.lastPatch()
	if patch.docID != "projects" {
		t.Fatalf("патч должен идти в партицию projects, получено: %s", patch.docID)
	}
	if _, ok := patch.fields["projects"]; !ok {
		t.Fatal("в патче нет списка опубликованных")
	}
	if _, ok := patch.fields["projectsDraft"]; !ok {
		t.Fatal("в патче нет списка черновиков")
	}
}

func TestGetForEditPrefersDraft(t *testing.T) {
	svc, _ := newTestArticleService()
	ctx := context.Background()

	a := svc.NewArticle(ctx, models.CreateArticleRequest{Title: "Опубликованная версия"})
	if err := svc.Publish(ctx, "", a); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	draft := *a
	draft.Title = "Черновик в работе"
	if err := svc.SaveDraft(ctx, "", &draft); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	got, err := svc.GetForEdit(ctx, "", a.ID)
	if err != nil {
		t.Fatalf("GetForEdit: %v", err)
	}
	if got.Title != "Черновик в работе" {
		t.Fatalf("при живом черновике редактироваться должен он, получено: %q", got.Title)
	}
}

func TestDeleteRemovesFromBothLists(t *testing.T) {
	svc, _ := newTestArticleService()
	ctx := context.Background()

	a := svc.NewArticle(ctx, models.CreateArticleRequest{Title: "Удаляемая"})
	if err := svc.Publish(ctx, "", a); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	draft := *a
	if err := svc.SaveDraft(ctx, "", &draft); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	if err := svc.Delete(ctx, "", a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.GetForEdit(ctx, "", a.ID); err != ErrArticleNotFound {
		t.Fatalf("после удаления статья не должна находиться, ошибка: %v", err)
	}
}

func TestSubTabListsAreIsolated(t *testing.T) {
	svc, _ := newTestArticleService()
	ctx := context.Background()

	a := svc.NewArticle(ctx, models.CreateArticleRequest{Title: "Вкладочная"})
	if err := svc.SaveDraft(ctx, "drift", a); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	main, _ := svc.ListDrafts(ctx, "")
	if len(main) != 0 {
		t.Fatalf("черновик под-вкладки не должен попасть в основной список: %d", len(main))
	}
	drift, _ := svc.ListDrafts(ctx, "drift")
	if len(drift) != 1 {
		t.Fatalf("черновик должен лежать в projectsDraft_drift: %d", len(drift))
	}
}

func TestSanitizeStripsScript(t *testing.T) {
	svc, _ := newTestArticleService()
	ctx := context.Background()

	a := svc.NewArticle(ctx, models.CreateArticleRequest{
		Title: "XSS",
		Blocks: []models.Block{
			{Type: "text", HTML: `<p>норм</p><script>alert(1)</script>`},
		},
	})
	if err := svc.SaveDraft(ctx, "", a); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	drafts, _ := svc.ListDrafts(ctx, "")
	html := drafts[0].Blocks[0].HTML
	if strings.Contains(html, "<script") {
		t.Fatalf("script обязан быть вырезан: %q", html)
	}
	if !strings.Contains(html, "<p>норм</p>") {
		t.Fatalf("разрешённая разметка должна выжить: %q", html)
	}
}

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"turbocms/internal/content"
	"turbocms/internal/repository"
)

// fakeStore — хранилище в памяти. Эхо снапшотов не автоматическое:
// тесты толкают снапшоты сами через push, чтобы контролировать порядок.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[string]content.Document
	subs    map[string][]repository.SnapshotFunc
	patches []patchCall
	sets    []setCall
}

type patchCall struct {
	docID  string
	fields content.Document
}

type setCall struct {
	docID string
	body  content.Document
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs: make(map[string]content.Document),
		subs: make(map[string][]repository.SnapshotFunc),
	}
}

func (f *fakeStore) GetDocument(_ context.Context, docID string) (content.Document, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.docs[docID]
	return body, ok, nil
}

func (f *fakeStore) SetDocument(_ context.Context, docID string, body content.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[docID] = body
	f.sets = append(f.sets, setCall{docID: docID, body: body})
	return nil
}

func (f *fakeStore) PatchDocument(_ context.Context, docID string, fields content.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.docs[docID]
	if doc == nil {
		doc = make(content.Document)
	}
	for k, v := range fields {
		doc[k] = v
	}
	f.docs[docID] = doc
	f.patches = append(f.patches, patchCall{docID: docID, fields: fields})
	return nil
}

func (f *fakeStore) Subscribe(_ context.Context, docID string, cb repository.SnapshotFunc) (func(), error) {
	f.mu.Lock()
	f.subs[docID] = append(f.subs[docID], cb)
	body, ok := f.docs[docID]
	f.mu.Unlock()

	cb(body, ok)
	return func() {}, nil
}

// push доставляет снапшот всем подписчикам документа (имитация уведомления).
func (f *fakeStore) push(docID string, body content.Document) {
	f.mu.Lock()
	f.docs[docID] = body
	cbs := append([]repository.SnapshotFunc(nil), f.subs[docID]...)
	f.mu.Unlock()

	for _, cb := range cbs {
		cb(body, true)
	}
}

func (f *fakeStore) patchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patches)
}

func (f *fakeStore) lastPatch() (patchCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.patches) == 0 {
		return patchCall{}, false
	}
	return f.patches[len(f.patches)-1], true
}

const testDebounce = 40 * time.Millisecond

type SyncEngineTestSuite struct {
	suite.Suite

	store  *fakeStore
	engine *SyncEngine
}

func (s *SyncEngineTestSuite) SetupTest() {
	s.store = newFakeStore()
	// Все три партиции уже существуют с дефолтами — как после первого запуска.
	for _, p := range content.Partitions() {
		s.store.docs[string(p)] = content.DefaultsFor(p)
	}

	s.engine = NewSyncEngine(s.store, testDebounce)
	s.Require().NoError(s.engine.Start(context.Background()))
}

func (s *SyncEngineTestSuite) TearDownTest() {
	s.engine.Stop(context.Background())
}

func TestSyncEngineTestSuite(t *testing.T) {
	suite.Run(t, new(SyncEngineTestSuite))
}

// Дебаунс: из N быстрых правок одного ключа уходит ровно одна запись,
// с состоянием после последней правки, в партицию main, поле ranking.
func (s *SyncEngineTestSuite) TestDebounceCoalescing() {
	ctx := context.Background()

	s.Require().NoError(s.engine.UpdateContent(ctx, "ranking.colors.top5", "#111111"))
	s.Require().NoError(s.engine.UpdateContent(ctx, "ranking.colors.top5", "#000000"))

	// До истечения окна записей нет.
	s.Equal(0, s.store.patchCount())

	s.Require().Eventually(func() bool {
		return s.store.patchCount() > 0
	}, time.Second, 5*time.Millisecond)

	// Дождаться возможных лишних таймеров.
	time.Sleep(2 * testDebounce)
	s.Equal(1, s.store.patchCount(), "ожидалась ровно одна запись")

	patch, ok := s.store.lastPatch()
	s.Require().True(ok)
	s.Equal("main", patch.docID)

	ranking, ok := patch.fields["ranking"].(map[string]any)
	s.Require().True(ok, "в патче должно быть поле ranking целиком")
	colors := ranking["colors"].(map[string]any)
	s.Equal("#000000", colors["top5"], "должно уйти состояние после последней правки")
}

// Подавление по равенству: значение, совпадающее с последним известным
// удалённым, записи не порождает.
func (s *SyncEngineTestSuite) TestEqualitySuppression() {
	ctx := context.Background()

	styles, ok := s.engine.Section("styles")
	s.Require().True(ok)

	s.Require().NoError(s.engine.UpdateContent(ctx, "styles", styles))

	time.Sleep(3 * testDebounce)
	s.Equal(0, s.store.patchCount(), "запись без изменений должна быть пропущена")
}

// Путь публикации статей минует дебаунс: запись уходит сразу.
func (s *SyncEngineTestSuite) TestImmediateWriteForProjects() {
	ctx := context.Background()

	articles := []any{map[string]any{"id": "a1", "published": true}}
	s.Require().NoError(s.engine.UpdateContent(ctx, "projects", articles))

	patch, ok := s.store.lastPatch()
	s.Require().True(ok, "запись projects должна уйти немедленно")
	s.Equal("projects", patch.docID)
	s.Contains(patch.fields, "projects")
}

// Первый запуск: отсутствующие документы инициализируются дефолтами.
func (s *SyncEngineTestSuite) TestDefaultFillOnMissingDocuments() {
	store := newFakeStore() // пустое хранилище
	engine := NewSyncEngine(store, testDebounce)
	s.Require().NoError(engine.Start(context.Background()))
	defer engine.Stop(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	s.Require().Len(store.sets, 3, "каждая партиция должна быть создана")

	for _, set := range store.sets {
		want := content.DefaultsFor(content.Partition(set.docID))
		s.True(content.DeepEqual(any(set.body), any(want)),
			"партиция %s должна быть создана ровно из дефолтов", set.docID)
	}
}

// Пока висит несброшенная локальная запись, снапшот не затирает локальное.
func (s *SyncEngineTestSuite) TestSnapshotSuppressedWhilePending() {
	ctx := context.Background()

	s.Require().NoError(s.engine.UpdateContent(ctx, "home.aboutTitle", "локальная правка"))

	snap := content.DefaultsFor(content.PartitionMain)
	snap = content.SetPath(snap, "home.aboutTitle", "правка соседней вкладки")
	s.store.push("main", snap)

	v, _ := s.engine.GetPath("home.aboutTitle")
	s.Equal("локальная правка", v, "локальная правка главнее до сброса")

	// После сброса таймера снапшоты снова применяются.
	s.Require().Eventually(func() bool {
		return s.store.patchCount() > 0
	}, time.Second, 5*time.Millisecond)

	snap2 := content.SetPath(snap, "home.aboutTitle", "поздняя правка")
	s.store.push("main", snap2)

	v, _ = s.engine.GetPath("home.aboutTitle")
	s.Equal("поздняя правка", v, "после сброса снапшот должен слиться")
}

// Правка, откаченная к удалённому значению до истечения окна дебаунса,
// записи не порождает.
func (s *SyncEngineTestSuite) TestRevertWithinDebounceWindowSkipsWrite() {
	ctx := context.Background()

	original, ok := s.engine.GetPath("home.aboutTitle")
	s.Require().True(ok)

	s.Require().NoError(s.engine.UpdateContent(ctx, "home.aboutTitle", "временная правка"))
	s.Require().NoError(s.engine.UpdateContent(ctx, "home.aboutTitle", original))

	time.Sleep(3 * testDebounce)
	s.Equal(0, s.store.patchCount(), "откаченная правка не должна уходить в хранилище")
}

// Отключение наблюдателя во время потока правок не должно ронять движок:
// закрытие канала и отправка в него защищены одним мьютексом.
func (s *SyncEngineTestSuite) TestWatcherCancelDuringMutations() {
	ctx := context.Background()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = s.engine.UpdateContent(ctx, "home.aboutTitle", "правка-а")
				_ = s.engine.UpdateContent(ctx, "home.aboutTitle", "правка-б")
			}
		}()
	}

	for i := 0; i < 5000; i++ {
		ch, cancel := s.engine.Watch()
		select {
		case <-ch:
		default:
		}
		cancel()
		cancel() // повторная отмена тоже безопасна
	}

	close(stop)
	wg.Wait()
}

// Эхо: снапшот, идентичный последнему известному, игнорируется молча.
func (s *SyncEngineTestSuite) TestIdenticalSnapshotIgnored() {
	ch, cancel := s.engine.Watch()
	defer cancel()

	s.store.push("main", content.DefaultsFor(content.PartitionMain))

	select {
	case <-ch:
		s.Fail("эхо-снапшот не должен будить наблюдателей")
	case <-time.After(2 * testDebounce):
	}
}

// Слияние: объектные ключи сливаются поверхностно, локальные подполя без
// удалённой пары выживают.
func (s *SyncEngineTestSuite) TestSnapshotShallowMerge() {
	snap := content.DefaultsFor(content.PartitionMain)
	home := snap["home"].(map[string]any)
	delete(home, "gallery")
	home["aboutTitle"] = "из снапшота"

	s.store.push("main", snap)

	v, _ := s.engine.GetPath("home.aboutTitle")
	s.Equal("из снапшота", v)

	_, ok := s.engine.GetPath("home.gallery")
	s.True(ok, "локальное подполе должно пережить поверхностное слияние")
}

// Сторож пустого списка: запись не блокируется (наблюдаемое поведение).
func (s *SyncEngineTestSuite) TestEmptyListOverwriteProceeds() {
	ctx := context.Background()

	s.Require().NoError(s.engine.UpdateContent(ctx, "projects",
		[]any{map[string]any{"id": "a1"}}))
	s.Require().NoError(s.engine.UpdateContent(ctx, "projects", []any{}))

	patch, ok := s.store.lastPatch()
	s.Require().True(ok)
	list, _ := patch.fields["projects"].([]any)
	s.Len(list, 0, "пустой список всё равно должен записаться")
}

// Активная сессия правки хотспотов обновляется из снапшота.
func (s *SyncEngineTestSuite) TestHotspotBufferRefreshedFromSnapshot() {
	s.engine.BeginHotspotEdit("banner-1")
	defer s.engine.EndHotspotEdit()

	snap := content.DefaultsFor(content.PartitionMain)
	snap = content.SetPath(snap, "header.banners", []any{
		map[string]any{
			"id": "banner-1",
			"hotspots": []any{
				map[string]any{"id": "h1", "x": 10.0, "y": 20.0, "w": 30.0, "h": 5.0},
			},
		},
	})
	s.store.push("main", snap)

	bannerID, buf, ok := s.engine.HotspotBuffer()
	s.Require().True(ok)
	s.Equal("banner-1", bannerID)
	s.Require().Len(buf, 1, "буфер должен подтянуть хотспоты из снапшота")
}

// Нет хранилища — правка остаётся локальной и не падает.
func TestUpdateContentWithoutStore(t *testing.T) {
	engine := NewSyncEngine(nil, testDebounce)

	if err := engine.UpdateContent(context.Background(), "home.aboutTitle", "локально"); err != nil {
		t.Fatalf("локальная правка без хранилища не должна падать: %v", err)
	}

	v, _ := engine.GetPath("home.aboutTitle")
	if v != "локально" {
		t.Fatalf("правка не применилась локально: %v", v)
	}
}

func TestShouldWrite(t *testing.T) {
	if shouldWrite("одно", "одно") {
		t.Fatal("равные значения не должны писаться")
	}
	if !shouldWrite("новое", "старое") {
		t.Fatal("различие должно порождать запись")
	}
	if !shouldWrite([]any{"x"}, nil) {
		t.Fatal("отсутствие удалённого значения должно порождать запись")
	}
}

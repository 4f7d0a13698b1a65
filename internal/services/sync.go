package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"turbocms/internal/content"
	"turbocms/internal/logger"
	"turbocms/internal/repository"
)

// SyncEngine — ядро: локальное авторитетное состояние контента плюс
// сверка с тремя удалёнными партициями. Локальная мутация применяется
// синхронно (оптимистично), исходящая запись склеивается дебаунсом,
// кроме пути публикации статей. Входящие снапшоты давятся по равенству
// и не затирают локальные правки, пока есть несброшенная запись.
type SyncEngine struct {
	store    repository.DocumentStore
	debounce time.Duration

	mu         sync.Mutex
	doc        content.Document
	lastRemote map[content.Partition]content.Document
	pending    map[content.Partition]*pendingWrite
	running    bool
	unsubs     []func()

	watchers    map[int]chan content.Document
	nextWatcher int

	hotspot *hotspotSession
}

type pendingWrite struct {
	timer *time.Timer
	keys  map[string]struct{}
}

// hotspotSession — активная правка хотспотов одного баннера.
// Буфер обновляется из снапшота, чтобы правки соседней вкладки были видны,
// не сбивая текущее перетаскивание.
type hotspotSession struct {
	bannerID string
	hotspots []any
}

// PathValue — одна мутация для группового применения.
type PathValue struct {
	Path  string
	Value any
}

func NewSyncEngine(store repository.DocumentStore, debounce time.Duration) *SyncEngine {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &SyncEngine{
		store:      store,
		debounce:   debounce,
		doc:        content.Defaults(),
		lastRemote: make(map[content.Partition]content.Document),
		pending:    make(map[content.Partition]*pendingWrite),
		watchers:   make(map[int]chan content.Document),
	}
}

// Start подписывается на три партиции и начинает принимать снапшоты.
func (e *SyncEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.mu.Unlock()

	for _, p := range content.Partitions() {
		part := p
		unsub, err := e.store.Subscribe(ctx, string(part), func(body content.Document, exists bool) {
			e.onSnapshot(ctx, part, body, exists)
		})
		if err != nil {
			logger.Log.Error("sync: не удалось подписаться на партицию",
				zap.String("partition", string(part)), zap.Error(err))
			e.Stop(ctx)
			return err
		}
		e.mu.Lock()
		e.unsubs = append(e.unsubs, unsub)
		e.mu.Unlock()
	}

	logger.Log.Info("sync: движок запущен", zap.Duration("debounce", e.debounce))
	return nil
}

// Stop снимает подписки и досылает несброшенные записи.
func (e *SyncEngine) Stop(ctx context.Context) {
	e.mu.Lock()
	unsubs := e.unsubs
	e.unsubs = nil
	e.running = false
	parts := make([]content.Partition, 0, len(e.pending))
	for p, pw := range e.pending {
		if pw.timer != nil {
			pw.timer.Stop()
		}
		parts = append(parts, p)
	}
	e.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	for _, p := range parts {
		e.flushPartition(ctx, p)
	}
	logger.Log.Info("sync: движок остановлен")
}

// Document — копия текущего локального состояния.
func (e *SyncEngine) Document() content.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, _ := content.Clone(any(e.doc)).(map[string]any)
	return d
}

// Section — копия значения одного ключа верхнего уровня.
func (e *SyncEngine) Section(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.doc[key]
	if !ok {
		return nil, false
	}
	return content.Clone(v), true
}

// GetPath — значение по точечному пути.
func (e *SyncEngine) GetPath(path string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := content.GetPath(e.doc, path)
	if !ok {
		return nil, false
	}
	return content.Clone(v), true
}

// UpdateContent — единственная воронка мутаций. Применяет значение по пути
// локально и планирует (или сразу выполняет) удалённую запись.
func (e *SyncEngine) UpdateContent(ctx context.Context, path string, value any) error {
	if err := content.ValidatePath(path); err != nil {
		return err
	}
	return e.apply(ctx, []PathValue{{Path: path, Value: value}}, false)
}

// UpdateContentMulti применяет несколько путей как одну логическую запись:
// все затронутые ключи партиции уходят одним патчем, немедленно.
// Используется публикацией статьи (убрать из черновиков + добавить в
// опубликованные должны стать видимыми вместе).
func (e *SyncEngine) UpdateContentMulti(ctx context.Context, updates []PathValue) error {
	for _, u := range updates {
		if err := content.ValidatePath(u.Path); err != nil {
			return err
		}
	}
	return e.apply(ctx, updates, true)
}

func (e *SyncEngine) apply(ctx context.Context, updates []PathValue, forceImmediate bool) error {
	e.mu.Lock()

	immediate := make(map[content.Partition]map[string]struct{})
	touched := make(map[content.Partition]map[string]struct{})

	for _, u := range updates {
		e.doc = content.SetPath(e.doc, u.Path, u.Value)
		top := content.TopKey(u.Path)
		part := content.PartitionFor(top)

		newVal := e.doc[top]
		lastVal := e.lastRemote[part][top]

		if !shouldWrite(newVal, lastVal) {
			logger.WithCtx(ctx).Debug("sync: значение совпадает с удалённым, запись пропущена",
				zap.String("path", u.Path))
			continue
		}

		// Сторож пустого списка: предупреждаем, но запись не блокируем.
		if content.IsEmptyList(newVal) && content.IsNonEmptyList(lastVal) {
			logger.WithCtx(ctx).Warn("sync: пустой список поверх заполненного",
				zap.String("key", top), zap.String("partition", string(part)))
		}

		if forceImmediate || content.ImmediateKey(top) {
			if immediate[part] == nil {
				immediate[part] = make(map[string]struct{})
			}
			immediate[part][top] = struct{}{}
		} else {
			if touched[part] == nil {
				touched[part] = make(map[string]struct{})
			}
			touched[part][top] = struct{}{}
		}
	}

	running := e.running && e.store != nil

	// Дебаунс: отменяем и перевзводим таймер партиции, ключи копим.
	if running {
		for part, keys := range touched {
			pw := e.pending[part]
			if pw == nil {
				pw = &pendingWrite{keys: make(map[string]struct{})}
				e.pending[part] = pw
			}
			for k := range keys {
				pw.keys[k] = struct{}{}
			}
			if pw.timer != nil {
				pw.timer.Stop()
			}
			p := part
			pw.timer = time.AfterFunc(e.debounce, func() {
				e.flushPartition(context.Background(), p)
			})
		}
	}

	e.mu.Unlock()

	e.notifyWatchers()

	if !running {
		// Нет хранилища — правка остаётся локальной, ошибку не поднимаем.
		if len(immediate) > 0 || len(touched) > 0 {
			logger.WithCtx(ctx).Warn("sync: хранилище недоступно, правка применена только локально")
		}
		return nil
	}

	for part, keys := range immediate {
		e.writeKeys(ctx, part, keys)
	}
	return nil
}

// flushPartition отправляет накопленные ключи партиции одним патчем.
func (e *SyncEngine) flushPartition(ctx context.Context, part content.Partition) {
	e.mu.Lock()
	pw := e.pending[part]
	if pw == nil {
		e.mu.Unlock()
		return
	}
	delete(e.pending, part)
	keys := pw.keys
	e.mu.Unlock()

	if len(keys) == 0 {
		return
	}
	e.writeKeys(ctx, part, keys)
}

// writeKeys собирает текущие значения ключей и патчит документ партиции.
// Ошибка записи логируется и глотается: отката оптимистичного состояния
// и ретраев нет, интерфейс редактирования важнее строгой согласованности.
func (e *SyncEngine) writeKeys(ctx context.Context, part content.Partition, keys map[string]struct{}) {
	e.mu.Lock()
	fields := make(content.Document, len(keys))
	for k := range keys {
		v, ok := e.doc[k]
		if !ok {
			continue
		}
		// Равенство проверяется повторно на момент сброса: правка,
		// откаченная к удалённому значению в окне дебаунса, записи
		// не порождает.
		if !shouldWrite(v, e.lastRemote[part][k]) {
			logger.Log.Debug("sync: значение вернулось к удалённому, запись пропущена",
				zap.String("key", k), zap.String("partition", string(part)))
			continue
		}
		fields[k] = content.Clone(v)
	}
	e.mu.Unlock()

	if len(fields) == 0 {
		return
	}

	if err := e.store.PatchDocument(ctx, string(part), fields); err != nil {
		logger.Log.Error("sync: запись в хранилище не удалась",
			zap.String("partition", string(part)), zap.Error(err))
		return
	}

	// Записанное значение и есть последнее известное удалённое:
	// повторную запись того же значения до прихода эха не делаем.
	e.mu.Lock()
	last := e.lastRemote[part]
	if last == nil {
		last = make(content.Document)
		e.lastRemote[part] = last
	}
	for k, v := range fields {
		last[k] = v
	}
	e.mu.Unlock()

	logger.Log.Debug("sync: патч отправлен",
		zap.String("partition", string(part)), zap.Int("fields", len(fields)))
}

// onSnapshot — приём снапшота партиции.
func (e *SyncEngine) onSnapshot(ctx context.Context, part content.Partition, body content.Document, exists bool) {
	if !exists {
		// Первый запуск: инициализируем партицию зашитыми дефолтами.
		defaults := content.DefaultsFor(part)
		logger.Log.Info("sync: удалённый документ отсутствует, инициализация дефолтами",
			zap.String("partition", string(part)), zap.Int("keys", len(defaults)))
		if err := e.store.SetDocument(ctx, string(part), defaults); err != nil {
			logger.Log.Error("sync: не удалось инициализировать партицию",
				zap.String("partition", string(part)), zap.Error(err))
			return
		}
		e.mu.Lock()
		e.lastRemote[part] = defaults
		e.mu.Unlock()
		return
	}

	snap := content.OwnedKeys(body, part)

	e.mu.Lock()

	// Подавление петли: снапшот, идентичный последнему известному, игнорируем.
	if content.DeepEqual(any(snap), any(e.lastRemote[part])) {
		e.mu.Unlock()
		return
	}
	e.lastRemote[part] = snap

	// Пока есть несброшенная локальная запись — локальные правки главнее.
	if e.pending[part] != nil {
		e.mu.Unlock()
		logger.Log.Debug("sync: снапшот подавлен, есть локальная запись в полёте",
			zap.String("partition", string(part)))
		return
	}

	e.doc = content.Merge(e.doc, snap)
	e.refreshHotspotBufferLocked(snap)
	e.mu.Unlock()

	e.notifyWatchers()
	logger.Log.Debug("sync: снапшот слит в локальное состояние",
		zap.String("partition", string(part)), zap.Int("keys", len(snap)))
}

// shouldWrite — чистое решение «писать или нет»: пишем, только если новое
// значение структурно отличается от последнего известного удалённого.
func shouldWrite(localValue, lastRemoteValue any) bool {
	return !content.DeepEqual(localValue, lastRemoteValue)
}

// --- наблюдатели (websocket-сессии админки) ---

// Watch регистрирует канал, в который уходит каждое применённое состояние.
// Медленный потребитель теряет промежуточные состояния, не блокируя движок.
func (e *SyncEngine) Watch() (<-chan content.Document, func()) {
	ch := make(chan content.Document, 8)
	e.mu.Lock()
	e.nextWatcher++
	id := e.nextWatcher
	e.watchers[id] = ch
	e.mu.Unlock()

	// Закрытие канала и отправка в него сериализованы одним мьютексом:
	// отправка в уже закрытый канал уронила бы путь мутации паникой.
	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.watchers[id]; !ok {
			return
		}
		delete(e.watchers, id)
		close(ch)
	}
	return ch, cancel
}

func (e *SyncEngine) notifyWatchers() {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, _ := content.Clone(any(e.doc)).(map[string]any)
	for _, ch := range e.watchers {
		select {
		case ch <- doc:
		default:
		}
	}
}

// --- буфер правки хотспотов ---

// BeginHotspotEdit открывает сессию правки хотспотов баннера.
func (e *SyncEngine) BeginHotspotEdit(bannerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hotspot = &hotspotSession{bannerID: bannerID}
	if hs, ok := e.bannerHotspotsLocked(e.doc, bannerID); ok {
		e.hotspot.hotspots = hs
	}
}

// EndHotspotEdit закрывает сессию.
func (e *SyncEngine) EndHotspotEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hotspot = nil
}

// HotspotBuffer — текущий буфер правки (nil, если сессии нет).
func (e *SyncEngine) HotspotBuffer() (string, []any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hotspot == nil {
		return "", nil, false
	}
	buf, _ := content.Clone(any(e.hotspot.hotspots)).([]any)
	return e.hotspot.bannerID, buf, true
}

// refreshHotspotBufferLocked обновляет буфер из снапшота, если правка активна
// и затронутый баннер пришёл в снапшоте.
func (e *SyncEngine) refreshHotspotBufferLocked(snap content.Document) {
	if e.hotspot == nil {
		return
	}
	if _, ok := snap["header"]; !ok {
		return
	}
	if hs, ok := e.bannerHotspotsLocked(e.doc, e.hotspot.bannerID); ok {
		e.hotspot.hotspots = hs
	}
}

func (e *SyncEngine) bannerHotspotsLocked(doc content.Document, bannerID string) ([]any, bool) {
	banners, ok := content.GetPath(doc, "header.banners")
	if !ok {
		return nil, false
	}
	list, ok := banners.([]any)
	if !ok {
		return nil, false
	}
	for _, b := range list {
		m, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if m["id"] == bannerID {
			hs, _ := m["hotspots"].([]any)
			return hs, true
		}
	}
	return nil, false
}

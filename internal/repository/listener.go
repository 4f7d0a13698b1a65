package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"turbocms/internal/content"
	"turbocms/internal/logger"
)

const notifyChannel = "content_documents_changed"

type fetchFunc func(ctx context.Context, docID string) (content.Document, bool, error)

// notifyListener держит выделенное соединение под LISTEN и раздаёт свежие
// снапшоты подписчикам. Подписчик получает эхо и собственных записей —
// подавление дублей лежит на движке синхронизации, не здесь.
type notifyListener struct {
	db    *pgxpool.Pool
	appID string
	fetch fetchFunc

	mu      sync.Mutex
	nextID  int
	subs    map[string]map[int]SnapshotFunc // docID -> subID -> cb
	started bool
}

func newNotifyListener(db *pgxpool.Pool, appID string, fetch fetchFunc) *notifyListener {
	return &notifyListener{
		db:    db,
		appID: appID,
		fetch: fetch,
		subs:  make(map[string]map[int]SnapshotFunc),
	}
}

func (l *notifyListener) subscribe(ctx context.Context, docID string, cb SnapshotFunc) (func(), error) {
	// Сразу доставляем текущее состояние: отсутствующий документ — это
	// сигнал «первый запуск», его тоже нужно доставить.
	body, exists, err := l.fetch(ctx, docID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.nextID++
	id := l.nextID
	if l.subs[docID] == nil {
		l.subs[docID] = make(map[int]SnapshotFunc)
	}
	l.subs[docID][id] = cb
	l.mu.Unlock()

	cb(body, exists)

	unsub := func() {
		l.mu.Lock()
		delete(l.subs[docID], id)
		l.mu.Unlock()
	}
	return unsub, nil
}

func (l *notifyListener) start(ctx context.Context) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run(ctx)
}

func (l *notifyListener) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := l.listenLoop(ctx); err != nil && ctx.Err() == nil {
			logger.Log.Error("listener: соединение потеряно, переподключение", zap.Error(err))
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (l *notifyListener) listenLoop(ctx context.Context) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	logger.Log.Info("listener: подписка на канал изменений", zap.String("channel", notifyChannel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.dispatch(ctx, n.Payload)
	}
}

// dispatch обрабатывает payload вида "<app_id>:<doc_id>".
func (l *notifyListener) dispatch(ctx context.Context, payload string) {
	appID, docID, ok := strings.Cut(payload, ":")
	if !ok || appID != l.appID {
		return
	}

	l.mu.Lock()
	cbs := make([]SnapshotFunc, 0, len(l.subs[docID]))
	for _, cb := range l.subs[docID] {
		cbs = append(cbs, cb)
	}
	l.mu.Unlock()

	if len(cbs) == 0 {
		return
	}

	body, exists, err := l.fetch(ctx, docID)
	if err != nil {
		logger.Log.Error("listener: не удалось прочитать документ после уведомления",
			zap.String("doc_id", docID), zap.Error(err))
		return
	}

	for _, cb := range cbs {
		cb(body, exists)
	}
}

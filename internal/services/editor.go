package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"turbocms/internal/logger"
	"turbocms/internal/models"
)

// EditorService — серверные сессии редактора статей. Пока сессия открыта,
// рабочая копия живёт в памяти и по тикеру уходит в список черновиков;
// закрытие сессии (уход со страницы) досылает черновик ещё раз.
type EditorService struct {
	articles *ArticleService
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*editorSession
}

type editorSession struct {
	id      string
	subTab  string
	working models.Article
	dirty   bool
	stop    chan struct{}
}

var ErrSessionNotFound = errors.New("сессия редактора не найдена")

func NewEditorService(articles *ArticleService, interval time.Duration) *EditorService {
	if interval <= 0 {
		interval = 20 * time.Second
	}
	return &EditorService{
		articles: articles,
		interval: interval,
		sessions: make(map[string]*editorSession),
	}
}

// Open создаёт сессию вокруг статьи и запускает автосохранение.
func (s *EditorService) Open(ctx context.Context, subTab string, a models.Article) string {
	id := uuid.NewString()
	sess := &editorSession{
		id:      id,
		subTab:  subTab,
		working: a,
		stop:    make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	go s.autosaveLoop(sess)

	logger.WithCtx(ctx).Info("editor: сессия открыта",
		zap.String("session_id", id), zap.String("article_id", a.ID))
	return id
}

// Update заменяет рабочую копию (очередной снимок редактируемого DOM).
func (s *EditorService) Update(ctx context.Context, sessionID string, a models.Article) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		a.ID = sess.working.ID // id статьи в сессии не меняется
		sess.working = a
		sess.dirty = true
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Close досылает черновик и завершает сессию (уход со страницы).
func (s *EditorService) Close(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	close(sess.stop)

	working := sess.working
	if err := s.articles.SaveDraft(ctx, sess.subTab, &working); err != nil {
		logger.WithCtx(ctx).Error("editor: финальное сохранение черновика не удалось",
			zap.String("session_id", sessionID), zap.Error(err))
		return err
	}

	logger.WithCtx(ctx).Info("editor: сессия закрыта", zap.String("session_id", sessionID))
	return nil
}

// Working — текущая рабочая копия сессии.
func (s *EditorService) Working(sessionID string) (models.Article, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return models.Article{}, "", ErrSessionNotFound
	}
	return sess.working, sess.subTab, nil
}

// autosaveLoop — тикер автосохранения: раз в интервал несохранённая рабочая
// копия уходит в черновики.
func (s *EditorService) autosaveLoop(sess *editorSession) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			s.mu.Lock()
			dirty := sess.dirty
			working := sess.working
			sess.dirty = false
			s.mu.Unlock()

			if !dirty {
				continue
			}
			if err := s.articles.SaveDraft(context.Background(), sess.subTab, &working); err != nil {
				logger.Log.Error("editor: автосохранение не удалось",
					zap.String("session_id", sess.id), zap.Error(err))
			}
		case <-sess.stop:
			return
		}
	}
}

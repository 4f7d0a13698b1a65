package handlers

import (
	"net/http"

	"turbocms/internal/logger"
	"turbocms/internal/services"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WatchHandler — пуш снапшотов контента в открытые сессии по WebSocket.
// Каждое применённое состояние (локальная правка или слитый снапшот)
// уходит подключённым клиентам целиком.
type WatchHandler struct {
	engine   *services.SyncEngine
	upgrader websocket.Upgrader
}

func NewWatchHandler(engine *services.SyncEngine) *WatchHandler {
	return &WatchHandler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Витрина и админка живут на другом origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Watch
// @Summary      Подписка на изменения контента (WebSocket)
// @Description  После апгрейда каждое изменение документа приходит целиком
// @Tags         content
// @Router       /api/content/watch [get]
func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("watch: апгрейд не удался", zap.Error(err))
		return
	}
	defer conn.Close()

	ch, cancel := h.engine.Watch()
	defer cancel()

	log.Info("watch: клиент подключён", zap.String("remote", conn.RemoteAddr().String()))

	// Первый кадр — текущее состояние, дальше по изменениям.
	if err := conn.WriteJSON(h.engine.Document()); err != nil {
		log.Debug("watch: клиент отвалился на первом кадре", zap.Error(err))
		return
	}

	// Читатель нужен только чтобы заметить закрытие со стороны клиента.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case doc, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(doc); err != nil {
				log.Debug("watch: клиент отключился", zap.Error(err))
				return
			}
		case <-done:
			log.Info("watch: клиент закрыл соединение")
			return
		case <-r.Context().Done():
			return
		}
	}
}

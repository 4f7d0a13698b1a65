package repository

import (
	"context"

	"turbocms/internal/content"
)

// DocumentStore — адаптер удалённого хранилища документов.
// Контракт: подписка доставляет свежий снапшот при каждом изменении,
// включая эхо собственной записи; патч обновляет только переданные
// ключи верхнего уровня.
type DocumentStore interface {
	GetDocument(ctx context.Context, docID string) (content.Document, bool, error)
	SetDocument(ctx context.Context, docID string, body content.Document) error
	PatchDocument(ctx context.Context, docID string, fields content.Document) error
	// Subscribe регистрирует обработчик снапшотов документа и сразу доставляет
	// текущее состояние (exists=false, если документа ещё нет).
	// Возвращённая функция снимает подписку.
	Subscribe(ctx context.Context, docID string, cb SnapshotFunc) (func(), error)
}

// SnapshotFunc — обработчик снапшота; body=nil и exists=false для
// отсутствующего документа (первый запуск партиции).
type SnapshotFunc func(body content.Document, exists bool)

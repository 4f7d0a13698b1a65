package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"turbocms/internal/content"
)

// ContentDocumentRepo — Postgres-реализация DocumentStore.
// Партиция = строка таблицы content_documents с телом jsonb;
// патч — слияние на уровне ключей верхнего уровня (body || fields).
type ContentDocumentRepo struct {
	db    *pgxpool.Pool
	appID string

	listener *notifyListener
}

func NewContentDocumentRepo(db *pgxpool.Pool, appID string) *ContentDocumentRepo {
	r := &ContentDocumentRepo{db: db, appID: appID}
	r.listener = newNotifyListener(db, appID, r.fetchFor)
	return r
}

// EnsureSchema создаёт таблицу документов, если её ещё нет.
func (r *ContentDocumentRepo) EnsureSchema(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS content_documents (
			app_id     TEXT NOT NULL,
			doc_id     TEXT NOT NULL,
			body       JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (app_id, doc_id)
		)
	`
	_, err := r.db.Exec(ctx, q)
	return err
}

func (r *ContentDocumentRepo) GetDocument(ctx context.Context, docID string) (content.Document, bool, error) {
	const q = `SELECT body FROM content_documents WHERE app_id=$1 AND doc_id=$2`
	var raw []byte
	err := r.db.QueryRow(ctx, q, r.appID, docID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var body content.Document
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false, fmt.Errorf("битый jsonb документа %s: %w", docID, err)
	}
	return body, true, nil
}

func (r *ContentDocumentRepo) SetDocument(ctx context.Context, docID string, body content.Document) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO content_documents (app_id, doc_id, body, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (app_id, doc_id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`
	return r.writeAndNotify(ctx, docID, q, raw)
}

func (r *ContentDocumentRepo) PatchDocument(ctx context.Context, docID string, fields content.Document) error {
	if len(fields) == 0 {
		return nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	// body || fields — замена только переданных ключей верхнего уровня.
	const q = `
		INSERT INTO content_documents (app_id, doc_id, body, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (app_id, doc_id)
		DO UPDATE SET body = content_documents.body || EXCLUDED.body, updated_at = now()
	`
	return r.writeAndNotify(ctx, docID, q, raw)
}

// writeAndNotify выполняет запись и pg_notify в одной транзакции:
// уведомление не должно уйти раньше видимости данных.
func (r *ContentDocumentRepo) writeAndNotify(ctx context.Context, docID string, q string, raw []byte) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, q, r.appID, docID, raw); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, r.appID+":"+docID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ContentDocumentRepo) Subscribe(ctx context.Context, docID string, cb SnapshotFunc) (func(), error) {
	return r.listener.subscribe(ctx, docID, cb)
}

// Start запускает цикл LISTEN/доставки снапшотов.
func (r *ContentDocumentRepo) Start(ctx context.Context) {
	r.listener.start(ctx)
}

func (r *ContentDocumentRepo) fetchFor(ctx context.Context, docID string) (content.Document, bool, error) {
	return r.GetDocument(ctx, docID)
}

package port

import (
	"context"
	"time"
)

// StoredObject представляет объект в хранилище отчетов.
type StoredObject struct {
	Key          string
	URL          string
	SizeBytes    int64
	LastModified time.Time
}

// ReportStorage определяет интерфейс для хранения диагностических отчетов.
type ReportStorage interface {
	// PutObject загружает объект и возвращает URL для чтения.
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)

	// GetObjectURL возвращает presigned URL для чтения объекта.
	GetObjectURL(ctx context.Context, key string) (string, error)

	// ListObjects возвращает объекты с указанным префиксом.
	ListObjects(ctx context.Context, prefix string, limit int) ([]StoredObject, error)
}

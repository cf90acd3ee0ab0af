// Package storage guarda las imágenes QR en disco local o en un bucket S3 compatible.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
)

var _ tracking.ImageStore = (*LocalStore)(nil)

// LocalStore escribe bajo dir y devuelve rutas servibles bajo urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore construye el almacén. urlPrefix suele ser "/media".
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Dir directorio raíz, para servirlo como estático.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Store(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + key)[1:]
	path := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", clean, err)
	}
	return s.urlPrefix + "/" + filepath.ToSlash(clean), nil
}

// Package cache decora repositorios con Redis. Sin cliente (nil) todo se delega al
// repositorio subyacente: la caché es opcional.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

const scannerKeyPrefix = "scanner:name:"

var _ repository.ScannerRepository = (*ScannerRepo)(nil)

// ScannerRepo cachea la búsqueda por nombre, que se hace en cada escaneo.
// Los escáneres no cambian de línea ni de rol, así que el TTL solo acota la memoria.
type ScannerRepo struct {
	next   repository.ScannerRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewScannerRepo envuelve next. client puede ser nil.
func NewScannerRepo(next repository.ScannerRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *ScannerRepo {
	return &ScannerRepo{next: next, client: client, ttl: ttl, log: log.Component("scanner_cache")}
}

func (r *ScannerRepo) Create(ctx context.Context, s *entity.Scanner) error {
	if err := r.next.Create(ctx, s); err != nil {
		return err
	}
	r.forget(ctx, s.Name)
	return nil
}

func (r *ScannerRepo) GetByID(ctx context.Context, id int64) (*entity.Scanner, error) {
	return r.next.GetByID(ctx, id)
}

func (r *ScannerRepo) List(ctx context.Context, lineID *int64) ([]*entity.Scanner, error) {
	return r.next.List(ctx, lineID)
}

// GetByName lee de Redis y, si falla o no está, del repositorio. Los inexistentes no se cachean.
func (r *ScannerRepo) GetByName(ctx context.Context, name string) (*entity.Scanner, error) {
	if r.client == nil {
		return r.next.GetByName(ctx, name)
	}
	key := scannerKeyPrefix + name
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var s entity.Scanner
		if jerr := json.Unmarshal(raw, &s); jerr == nil {
			return &s, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Str("key", key).Msg("redis get")
	}

	s, err := r.next.GetByName(ctx, name)
	if err != nil || s == nil {
		return s, err
	}
	if payload, jerr := json.Marshal(s); jerr == nil {
		if serr := r.client.Set(ctx, key, payload, r.ttl).Err(); serr != nil {
			r.log.Warn().Err(serr).Str("key", key).Msg("redis set")
		}
	}
	return s, nil
}

func (r *ScannerRepo) forget(ctx context.Context, name string) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, scannerKeyPrefix+name).Err(); err != nil {
		r.log.Warn().Err(err).Str("scanner", name).Msg("redis del")
	}
}

// NewClient abre la conexión y verifica con Ping. Con addr vacío devuelve nil, nil.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

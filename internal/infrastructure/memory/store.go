// Package memory implementa los repositorios sobre mapas en proceso. Se usa en pruebas y con
// STORAGE_DRIVER=memory; los datos se pierden al reiniciar.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

type eventKey struct {
	scannerID int64
	unitID    int64
}

type targetKey struct {
	lineID  int64
	styleID int64
	date    string
}

type tables struct {
	seq map[string]int64

	lines    map[int64]entity.ProductionLine
	scanners map[int64]entity.Scanner
	bundles  map[int64]entity.Bundle
	units    map[int64]entity.TrackableUnit

	events    []entity.ScanEvent
	eventKeys map[eventKey]struct{}

	checks       map[string]entity.QualityCheck
	checkByEvent map[string]string
	rework       map[string]entity.ReworkAssignment
	defects      map[int64]entity.Defect

	named      map[string]map[int64]entity.Reference
	styles     map[int64]entity.Style
	materials  map[int64]entity.Material
	batches    map[int64]entity.ProductionBatch
	batchLines map[int64][]int64
	targets    map[targetKey]entity.ProductionTarget
}

func newTables() tables {
	t := tables{
		seq:          make(map[string]int64),
		lines:        make(map[int64]entity.ProductionLine),
		scanners:     make(map[int64]entity.Scanner),
		bundles:      make(map[int64]entity.Bundle),
		units:        make(map[int64]entity.TrackableUnit),
		eventKeys:    make(map[eventKey]struct{}),
		checks:       make(map[string]entity.QualityCheck),
		checkByEvent: make(map[string]string),
		rework:       make(map[string]entity.ReworkAssignment),
		defects:      make(map[int64]entity.Defect),
		named:        make(map[string]map[int64]entity.Reference),
		styles:       make(map[int64]entity.Style),
		materials:    make(map[int64]entity.Material),
		batches:      make(map[int64]entity.ProductionBatch),
		batchLines:   make(map[int64][]int64),
		targets:      make(map[targetKey]entity.ProductionTarget),
	}
	for _, kind := range []string{entity.ReferenceBuyer, entity.ReferenceSeason, entity.ReferenceSize, entity.ReferenceColor} {
		t.named[kind] = make(map[int64]entity.Reference)
	}
	return t
}

// Store base de datos en memoria compartida por todos los repositorios.
type Store struct {
	mu   sync.Mutex
	data tables
	now  func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newTables(), now: time.Now}
}

func (s *Store) nextID(table string) int64 {
	s.data.seq[table]++
	return s.data.seq[table]
}

func copyIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	return append([]int64(nil), ids...)
}

func ptr[T any](v T) *T { return &v }

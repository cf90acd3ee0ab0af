package memory

// journal guarda cómo deshacer cada escritura hecha por los repositorios de una transacción.
// Las escrituras hechas fuera de la transacción no pasan por aquí y sobreviven a un rollback.
// Las secuencias de ids no se revierten, igual que en PostgreSQL.
type journal struct {
	undo []func()
}

func (j *journal) add(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

// rollback deshace en orden inverso. Se llama con s.mu libre.
func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// putRow escribe m[k] = v y, dentro de una transacción, registra el valor anterior.
func putRow[K comparable, V any](j *journal, m map[K]V, k K, v V) {
	if j != nil {
		prev, had := m[k]
		j.add(func() {
			if had {
				m[k] = prev
			} else {
				delete(m, k)
			}
		})
	}
	m[k] = v
}

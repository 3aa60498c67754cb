// Package reactiontest provides in-memory implementations of the reaction
// store and subject resolver for tests.
package reactiontest

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mathieu-neron/vixtube/internal/reaction"
)

type kindKey struct {
	key  reaction.Key
	kind reaction.Kind
}

type groupKey struct {
	key   reaction.Key
	group string
}

// MemoryStore is a reaction.Store guarded by a single mutex. Atomic holds the
// mutex for the whole callback, which gives the same guarantees as a
// transaction over the two uniqueness constraints of the SQL schema.
type MemoryStore struct {
	mu     sync.Mutex
	rows   map[kindKey]reaction.Reaction
	groups map[groupKey]struct{}

	inserts int
	deletes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:   make(map[kindKey]reaction.Reaction),
		groups: make(map[groupKey]struct{}),
	}
}

// Len returns the number of stored reactions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Writes returns the number of committed row inserts and deletes.
func (m *MemoryStore) Writes() (inserts, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts, m.deletes
}

// Matching counts stored reactions for an exact (subject, actor, kind) tuple.
func (m *MemoryStore) Matching(key reaction.Key, kind reaction.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[kindKey{key, kind}]; ok {
		return 1
	}
	return 0
}

func (m *MemoryStore) Atomic(ctx context.Context, fn func(tx reaction.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.clone()
	if err := fn(&lockedStore{m: m}); err != nil {
		m.rows, m.groups = snapshot.rows, snapshot.groups
		m.inserts, m.deletes = snapshot.inserts, snapshot.deletes
		return err
	}
	return nil
}

func (m *MemoryStore) Insert(ctx context.Context, r reaction.Reaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(r), nil
}

func (m *MemoryStore) Delete(ctx context.Context, key reaction.Key, kinds []reaction.Kind) ([]reaction.Kind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(key, kinds), nil
}

func (m *MemoryStore) Count(ctx context.Context, t reaction.SubjectType, subjectID uuid.UUID, kind reaction.Kind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count(t, subjectID, kind), nil
}

func (m *MemoryStore) Kinds(ctx context.Context, key reaction.Key) ([]reaction.Kind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kinds(key), nil
}

func (m *MemoryStore) ListByActor(ctx context.Context, q reaction.ActorQuery) ([]reaction.Reaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, total := m.list(q)
	return rows, total, nil
}

func (m *MemoryStore) insert(r reaction.Reaction) bool {
	key := reaction.Key{SubjectType: r.SubjectType, SubjectID: r.SubjectID, ActorID: r.ActorID}
	kk := kindKey{key, r.Kind}
	gk := groupKey{key, reaction.Group(r.SubjectType, r.Kind)}
	if _, ok := m.rows[kk]; ok {
		return false
	}
	if _, ok := m.groups[gk]; ok {
		return false
	}
	m.rows[kk] = r
	m.groups[gk] = struct{}{}
	m.inserts++
	return true
}

func (m *MemoryStore) delete(key reaction.Key, kinds []reaction.Kind) []reaction.Kind {
	var removed []reaction.Kind
	for _, kind := range kinds {
		kk := kindKey{key, kind}
		if _, ok := m.rows[kk]; !ok {
			continue
		}
		delete(m.rows, kk)
		delete(m.groups, groupKey{key, reaction.Group(key.SubjectType, kind)})
		m.deletes++
		removed = append(removed, kind)
	}
	return removed
}

func (m *MemoryStore) count(t reaction.SubjectType, subjectID uuid.UUID, kind reaction.Kind) int64 {
	var n int64
	for k := range m.rows {
		if k.key.SubjectType == t && k.key.SubjectID == subjectID && k.kind == kind {
			n++
		}
	}
	return n
}

func (m *MemoryStore) list(q reaction.ActorQuery) ([]reaction.Reaction, int64) {
	var matched []reaction.Reaction
	for k, r := range m.rows {
		if k.key.ActorID != q.ActorID || k.key.SubjectType != q.SubjectType {
			continue
		}
		if len(q.Kinds) > 0 && !slices.Contains(q.Kinds, k.kind) {
			continue
		}
		matched = append(matched, r)
	}
	slices.SortFunc(matched, func(a, b reaction.Reaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return []reaction.Reaction{}, total
	}
	end := min(q.Offset+q.Limit, len(matched))
	return matched[q.Offset:end], total
}

func (m *MemoryStore) kinds(key reaction.Key) []reaction.Kind {
	var out []reaction.Kind
	for k := range m.rows {
		if k.key == key {
			out = append(out, k.kind)
		}
	}
	return out
}

func (m *MemoryStore) clone() *MemoryStore {
	c := NewMemoryStore()
	for k, v := range m.rows {
		c.rows[k] = v
	}
	for k := range m.groups {
		c.groups[k] = struct{}{}
	}
	c.inserts, c.deletes = m.inserts, m.deletes
	return c
}

// lockedStore is the view handed to Atomic callbacks; the caller already holds m.mu.
type lockedStore struct {
	m *MemoryStore
}

func (s *lockedStore) Atomic(ctx context.Context, fn func(tx reaction.Store) error) error {
	return fn(s)
}

func (s *lockedStore) Insert(ctx context.Context, r reaction.Reaction) (bool, error) {
	return s.m.insert(r), nil
}

func (s *lockedStore) Delete(ctx context.Context, key reaction.Key, kinds []reaction.Kind) ([]reaction.Kind, error) {
	return s.m.delete(key, kinds), nil
}

func (s *lockedStore) Count(ctx context.Context, t reaction.SubjectType, subjectID uuid.UUID, kind reaction.Kind) (int64, error) {
	return s.m.count(t, subjectID, kind), nil
}

func (s *lockedStore) Kinds(ctx context.Context, key reaction.Key) ([]reaction.Kind, error) {
	return s.m.kinds(key), nil
}

func (s *lockedStore) ListByActor(ctx context.Context, q reaction.ActorQuery) ([]reaction.Reaction, int64, error) {
	rows, total := s.m.list(q)
	return rows, total, nil
}

// Subjects is an in-memory reaction.SubjectResolver.
type Subjects struct {
	mu    sync.RWMutex
	items map[reaction.SubjectType]map[uuid.UUID]reaction.Subject
}

func NewSubjects() *Subjects {
	return &Subjects{items: make(map[reaction.SubjectType]map[uuid.UUID]reaction.Subject)}
}

// Add registers a subject and returns its id.
func (s *Subjects) Add(t reaction.SubjectType, subj reaction.Subject) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subj.ID == uuid.Nil {
		subj.ID = uuid.New()
	}
	subj.Type = t
	if s.items[t] == nil {
		s.items[t] = make(map[uuid.UUID]reaction.Subject)
	}
	s.items[t][subj.ID] = subj
	return subj.ID
}

// Remove deletes a subject, leaving its reactions in place.
func (s *Subjects) Remove(t reaction.SubjectType, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items[t], id)
}

func (s *Subjects) Exists(ctx context.Context, t reaction.SubjectType, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[t][id]
	return ok, nil
}

func (s *Subjects) Resolve(ctx context.Context, t reaction.SubjectType, ids []uuid.UUID) (map[uuid.UUID]reaction.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]reaction.Subject, len(ids))
	for _, id := range ids {
		if subj, ok := s.items[t][id]; ok {
			out[id] = subj
		}
	}
	return out, nil
}

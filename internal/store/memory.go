package store

import (
	"context"
	"sync"

	"lotes-map/internal/parcel"
)

// Memory：进程内实现；未配置数据库时与测试中使用
type Memory struct {
	mu      sync.Mutex
	parcels []parcel.Parcel
	users   map[string]User
}

func NewMemory() *Memory {
	return &Memory{users: map[string]User{}}
}

func clone(p parcel.Parcel) parcel.Parcel {
	p.Coords = append([]parcel.Coord(nil), p.Coords...)
	if p.Height != nil {
		h := *p.Height
		p.Height = &h
	}
	if p.ReservedBy != nil {
		b := *p.ReservedBy
		p.ReservedBy = &b
	}
	if p.ReservedAt != nil {
		a := *p.ReservedAt
		p.ReservedAt = &a
	}
	return p
}

func (m *Memory) List(context.Context) ([]parcel.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]parcel.Parcel, 0, len(m.parcels))
	for _, p := range m.parcels {
		out = append(out, clone(p))
	}
	return out, nil
}

func (m *Memory) Insert(_ context.Context, p parcel.Parcel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parcels = append(m.parcels, clone(p))
	return nil
}

func (m *Memory) Update(_ context.Context, id string, ch Change) (parcel.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.parcels {
		if m.parcels[i].ID == id {
			ApplyChange(&m.parcels[i], ch)
			return clone(m.parcels[i]), nil
		}
	}
	return parcel.Parcel{}, ErrNotFound
}

func (m *Memory) Delete(_ context.Context, ids []string) (int, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	keep := m.parcels[:0]
	n := 0
	for _, p := range m.parcels {
		if drop[p.ID] {
			n++
			continue
		}
		keep = append(keep, p)
	}
	m.parcels = keep
	return n, nil
}

func (m *Memory) Reset(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.parcels)
	m.parcels = nil
	return n, nil
}

func (m *Memory) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrDuplicateEmail
	}
	m.users[u.Email] = u
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

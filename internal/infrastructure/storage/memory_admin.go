package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

// Admin sessiyasi shuncha vaqt harakatsiz tursa tugaydi
const sessionTimeout = 24 * time.Hour

// Xotirada saqlanadigan harakatlar soni chegarasi
const maxActionLog = 200

type memoryAdminRepository struct {
	mu       sync.RWMutex
	sessions map[int64]entity.AdminSession
	actions  []entity.AdminAction
}

// NewMemoryAdminRepository in-memory admin repository. Sessiyalar va
// harakatlar jurnali jarayon qayta ishga tushganda yo'qoladi.
func NewMemoryAdminRepository() repository.AdminRepository {
	return &memoryAdminRepository{
		sessions: make(map[int64]entity.AdminSession),
	}
}

// CreateSession admin sessiyasini yaratish
func (m *memoryAdminRepository) CreateSession(ctx context.Context, session entity.AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.LastActivity = time.Now()
	m.sessions[session.UserID] = session
	return nil
}

// GetSession sessiyani olish
func (m *memoryAdminRepository) GetSession(ctx context.Context, userID int64) (*entity.AdminSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[userID]
	if !exists {
		return nil, fmt.Errorf("session not found for user %d", userID)
	}

	return &session, nil
}

// DeleteSession sessiyani o'chirish (logout)
func (m *memoryAdminRepository) DeleteSession(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// IsAdmin foydalanuvchi admin ekanligini tekshirish. Amaldagi sessiyaning
// faollik vaqti yangilanadi, eskirgan sessiya o'chiriladi.
func (m *memoryAdminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[userID]
	if !exists {
		return false, nil
	}

	if time.Since(session.LastActivity) > sessionTimeout {
		delete(m.sessions, userID)
		return false, nil
	}

	session.LastActivity = time.Now()
	m.sessions[userID] = session
	return session.IsAdmin, nil
}

// LogAction admin harakatini loglash
func (m *memoryAdminRepository) LogAction(ctx context.Context, action entity.AdminAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions = append(m.actions, action)
	if len(m.actions) > maxActionLog {
		m.actions = m.actions[len(m.actions)-maxActionLog:]
	}
	return nil
}

// RecentActions oxirgi harakatlar (yangilari oxirida)
func (m *memoryAdminRepository) RecentActions(ctx context.Context, limit int) ([]entity.AdminAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.actions) {
		limit = len(m.actions)
	}

	out := make([]entity.AdminAction, limit)
	copy(out, m.actions[len(m.actions)-limit:])
	return out, nil
}

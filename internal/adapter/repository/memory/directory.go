package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
)

type PropertyDirectory struct {
	mu         sync.RWMutex
	properties map[uuid.UUID]domain.Property
}

func NewPropertyDirectory() *PropertyDirectory {
	return &PropertyDirectory{properties: make(map[uuid.UUID]domain.Property)}
}

func (d *PropertyDirectory) Add(p domain.Property) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.properties[p.ID] = p
}

// Seed adds properties given as "propertyID:ownerID" pairs.
func (d *PropertyDirectory) Seed(entries []string) error {
	for _, entry := range entries {
		rawProperty, rawOwner, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return fmt.Errorf("seed property %q: want propertyID:ownerID", entry)
		}
		propertyID, err := uuid.Parse(rawProperty)
		if err != nil {
			return fmt.Errorf("seed property %q: %w", entry, err)
		}
		ownerID, err := uuid.Parse(rawOwner)
		if err != nil {
			return fmt.Errorf("seed property %q: %w", entry, err)
		}
		d.Add(domain.Property{ID: propertyID, OwnerID: ownerID})
	}
	return nil
}

func (d *PropertyDirectory) LookupProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.properties[propertyID]
	if !ok {
		return nil, domain.NotFound("property", propertyID)
	}
	return &p, nil
}

func (d *PropertyDirectory) ownerOf(propertyID uuid.UUID) uuid.UUID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.properties[propertyID].OwnerID
}

type UserDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[uuid.UUID]domain.User)}
}

func (d *UserDirectory) Add(u domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *UserDirectory) LookupUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[userID]
	if !ok {
		return nil, domain.NotFound("user", userID)
	}
	return &u, nil
}

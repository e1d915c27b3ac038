package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormStore persists rooms in Postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects and migrates the room tables.
func NewGormStore(dsn string) (*GormStore, error) {
	// TranslateError maps driver errors onto gorm sentinels, so duplicate
	// room codes come back as gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Room{}, &RoomPlayer{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) CreateRoom(ctx context.Context, room *Room) error {
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	err := g.db.WithContext(ctx).Create(room).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (g *GormStore) GetRoom(ctx context.Context, code string) (*Room, error) {
	var room Room
	err := g.db.WithContext(ctx).
		Preload("Players").
		First(&room, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// SaveRoom writes the room behind an optimistic version check: the UPDATE
// only lands if the stored version still matches, which serializes
// concurrent writers across processes.
func (g *GormStore) SaveRoom(ctx context.Context, room *Room) error {
	newVersion := room.Version + 1
	now := time.Now().UTC()

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Room{}).
			Where("code = ? AND version = ?", room.Code, room.Version).
			Updates(map[string]any{
				"mode":            room.Mode,
				"status":          room.Status,
				"host_player_id":  room.HostPlayerID,
				"host_faction_id": room.HostFactionID,
				"seed":            room.Seed,
				"state":           room.State,
				"version":         newVersion,
				"updated_at":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Room{}).Where("code = ?", room.Code).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrVersionConflict
		}

		// Seats are few; replace wholesale.
		if err := tx.Where("room_code = ?", room.Code).Delete(&RoomPlayer{}).Error; err != nil {
			return err
		}
		if len(room.Players) > 0 {
			if err := tx.Create(&room.Players).Error; err != nil {
				return err
			}
		}

		room.Version = newVersion
		room.UpdatedAt = now
		return nil
	})
}

func (g *GormStore) DeleteRoom(ctx context.Context, code string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_code = ?", code).Delete(&RoomPlayer{}).Error; err != nil {
			return err
		}
		res := tx.Where("code = ?", code).Delete(&Room{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/core"
	"github.com/airbandhq/airband/internal/domain"
)

const roomKeyPrefix = "room:"

// Rooms owns room identity and host authorization, backed by the shared KV
// store so every coordinator replica agrees on room existence.
type Rooms struct {
	store core.KV
	ttl   time.Duration
}

func NewRooms(store core.KV, ttl time.Duration) *Rooms {
	return &Rooms{store: store, ttl: ttl}
}

func roomKey(id domain.RoomID) string { return roomKeyPrefix + id.String() }

// Create writes a fresh room record and returns its id and host secret.
// The id is not checked for uniqueness first; a collision silently displaces
// the previous room. At 1 in ~9e7 that beats a read-before-write on every
// create.
func (r *Rooms) Create(ctx context.Context) (*domain.Room, error) {
	room := &domain.Room{
		ID:         domain.NewRoomID(),
		HostSecret: domain.NewHostSecret(),
		ExpiresAt:  time.Now().Add(r.ttl),
	}
	if err := r.store.Set(ctx, roomKey(room.ID), room.HostSecret.String(), r.ttl); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	log.Info().Str("module", "app.rooms").Str("room", room.ID.String()).Msg("room created")
	return room, nil
}

// VerifyHost reports whether token proves host privilege for the room.
// domain.ErrRoomNotFound means no record exists (expired or never created),
// which callers must keep distinct from a wrong secret.
func (r *Rooms) VerifyHost(ctx context.Context, roomID domain.RoomID, token string) (bool, error) {
	secret, err := r.store.Get(ctx, roomKey(roomID))
	if errors.Is(err, core.ErrKeyNotFound) {
		return false, domain.ErrRoomNotFound
	}
	if err != nil {
		return false, fmt.Errorf("verify host: %w", err)
	}
	return domain.HostSecret(secret).Matches(token), nil
}

// Remove deletes the stored record. Callers must broadcast destruction to
// members before calling this, so a join racing the delete cannot land in a
// half-destroyed room.
func (r *Rooms) Remove(ctx context.Context, roomID domain.RoomID) error {
	if err := r.store.Del(ctx, roomKey(roomID)); err != nil {
		return fmt.Errorf("remove room: %w", err)
	}
	log.Info().Str("module", "app.rooms").Str("room", roomID.String()).Msg("room removed")
	return nil
}

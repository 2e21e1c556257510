package store

import (
	"context"
	"errors"

	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/protocol"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// MapStore persists map records and their fog logs.
type MapStore interface {
	CreateMap(ctx context.Context, rec protocol.MapRecord) (protocol.MapRecord, error)
	ListMaps(ctx context.Context) ([]protocol.MapRecord, error)
	GetMap(ctx context.Context, id string) (protocol.MapRecord, error)
	// ActiveMap returns ErrNotFound when no map is active; callers surface
	// that as an idle "no active map" state, not a failure.
	ActiveMap(ctx context.Context) (protocol.MapRecord, error)
	// ReplaceFow overwrites the whole fog log, last writer wins. There is a
	// single authoring client, so no version check is needed.
	ReplaceFow(ctx context.Context, id string, l fog.Log) (protocol.MapRecord, error)
	// AppendFow durably appends one action to the stored log.
	AppendFow(ctx context.Context, id string, a fog.Action) (protocol.MapRecord, error)
	// Activate marks one map active and every other map inactive in the same
	// transaction.
	Activate(ctx context.Context, id string) (protocol.MapRecord, error)
	RenameMap(ctx context.Context, id, name string) (protocol.MapRecord, error)
	// DeleteMap removes the record and returns it so the caller can cascade
	// the backing upload file.
	DeleteMap(ctx context.Context, id string) (protocol.MapRecord, error)
}

// SoundStore persists sound records.
type SoundStore interface {
	CreateSound(ctx context.Context, rec protocol.SoundRecord) (protocol.SoundRecord, error)
	ListSounds(ctx context.Context) ([]protocol.SoundRecord, error)
	UpdateSound(ctx context.Context, id string, name *string, category *protocol.SoundCategory) (protocol.SoundRecord, error)
	DeleteSound(ctx context.Context, id string) (protocol.SoundRecord, error)
}

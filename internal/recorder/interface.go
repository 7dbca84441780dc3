package recorder

import (
	"context"

	"github.com/mauv0809/seven-a-side/internal/club"
)

// Store defines the database operations required by the recorder.
type Store interface {
	RecordMatch(ctx context.Context, match *club.Match) error
}

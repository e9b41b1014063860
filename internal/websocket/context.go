package websocket

import (
	"context"

	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/internal/logger"
	"github.com/rs/zerolog"
)

type Context struct {
	Log    zerolog.Logger
	UserID string
}

func CreateContext(ctx context.Context, docID uuid.UUID) Context {
	userID := ctx.Value("user_id").(string)
	log := logger.Get().With().
		Str("user_id", userID).
		Str("document_id", docID.String()).
		Logger()

	return Context{
		Log:    log,
		UserID: userID,
	}
}

package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/repository"
)

var (
	_ repository.UserRepository          = (*UserStore)(nil)
	_ repository.ProfileRepository       = (*ProfileStore)(nil)
	_ repository.ChannelRepository       = (*ChannelStore)(nil)
	_ repository.MembershipRepository    = (*MembershipStore)(nil)
	_ repository.MessageRepository       = (*MessageStore)(nil)
	_ repository.DirectMessageRepository = (*DirectMessageStore)(nil)
	_ repository.ActivityRepository      = (*ActivityStore)(nil)
	_ repository.NotificationRepository  = (*NotificationStore)(nil)
	_ repository.JobRepository           = (*JobStore)(nil)
	_ repository.MatrimonyRepository     = (*MatrimonyStore)(nil)
	_ repository.BusinessRepository      = (*BusinessStore)(nil)
	_ repository.ReportRepository        = (*ReportStore)(nil)
	_ repository.EventRepository         = (*EventStore)(nil)
	_ repository.ArticleRepository       = (*ArticleStore)(nil)
)

// wrapErr annotates err with op and maps the constraint violations callers
// care about onto the apperr sentinels.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		case pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%s: %w: %s", op, apperr.ErrValidation, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// uuidStrings converts ids for binding as $n::uuid[].
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/stats/internal/model"
)

type Repository interface {
	GetStats(ctx context.Context) (model.StatsInfo, error)
	// SaveEvent is idempotent on the event id, redelivered events are ignored.
	SaveEvent(ctx context.Context, event kafka.LoanEvent) error
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

func (r *repository) SaveEvent(ctx context.Context, event kafka.LoanEvent) error {
	q := `insert into loan_events (event_id, event_type, transaction_id, user_id, username, book_id, book_title, fine, occurred_at)
	values (@event_id, @event_type, @transaction_id, @user_id, @username, @book_id, @book_title, @fine, @occurred_at)
	on conflict (event_id) do nothing`
	args := pgx.NamedArgs{
		"event_id":       event.EventID,
		"event_type":     string(event.Type),
		"transaction_id": event.TransactionID,
		"user_id":        event.UserID,
		"username":       event.Username,
		"book_id":        event.BookID,
		"book_title":     event.BookTitle,
		"fine":           event.Fine,
		"occurred_at":    event.OccurredAt,
	}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return errors.Wrap(err, "insert loan event")
	}
	if tag.RowsAffected() == 0 {
		r.log.Debug("duplicate loan event", zap.String("eventID", event.EventID))
	}
	return nil
}

func (r *repository) GetStats(ctx context.Context) (model.StatsInfo, error) {
	const q = `
	select user_id, max(username) as username,
	       count(*) filter (where event_type = 'BORROW') as borrowed,
	       count(*) filter (where event_type = 'RETURN') as returned,
	       count(*) filter (where event_type = 'BORROW') - count(*) filter (where event_type = 'RETURN') as on_loan,
	       coalesce(sum(fine), 0) as fines_total,
	       max(occurred_at) as last_activity
	from loan_events
	group by user_id
	order by user_id
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return model.StatsInfo{}, errors.Wrap(err, "query stats")
	}
	defer rows.Close()
	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Stats])
	if err != nil {
		return model.StatsInfo{}, errors.Wrap(err, "pgx.CollectRows")
	}
	return model.StatsInfo{Data: stats}, nil
}

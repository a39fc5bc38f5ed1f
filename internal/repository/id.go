package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// idKind binds an entity prefix to the sequence backing it. Sequences
// are incremented atomically by postgres, so ids are safe under
// concurrent requests and never reused.
type idKind struct {
	prefix   string
	sequence string
}

var (
	kindUser   = idKind{prefix: "user", sequence: "user_seq"}
	kindBook   = idKind{prefix: "bk", sequence: "book_seq"}
	kindAuthor = idKind{prefix: "au", sequence: "author_seq"}
	kindGenre  = idKind{prefix: "ge", sequence: "genre_seq"}
	kindBorrow = idKind{prefix: "brw", sequence: "borrow_seq"}
)

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *repository) nextID(ctx context.Context, q queryer, kind idKind) (string, error) {
	var n int64
	if err := q.QueryRow(ctx, `select nextval($1)`, kind.sequence).Scan(&n); err != nil {
		return "", err
	}
	return formatID(kind.prefix, n), nil
}

// formatID pads to three digits; wider values keep all their digits.
func formatID(prefix string, n int64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

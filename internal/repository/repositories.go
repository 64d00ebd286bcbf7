package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor runs fn against repositories bound to one unit of work.
// Writes made through them are committed together or not at all.
type Transactor interface {
	WithTx(ctx context.Context, fn func(Repositories) error) error
}

// Repositories bundles every store the service layer depends on.
type Repositories struct {
	Principals   PrincipalRepository
	Permissions  PermissionRepository
	Companies    CompanyRepository
	Officers     OfficerRepository
	Applications ApplicationRepository
	Tasks        TaskRepository
	History      ApplicationHistoryRepository
	// Tx is nil inside a unit of work; nested calls then join the outer one.
	Tx Transactor
}

// WithTx runs fn in a unit of work, or directly on r when r is already bound to one.
func (r Repositories) WithTx(ctx context.Context, fn func(Repositories) error) error {
	if r.Tx == nil {
		return fn(r)
	}
	return r.Tx.WithTx(ctx, fn)
}

// NewPostgresRepositories builds pgx backed repositories sharing one pool.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	repos := newPostgresRepositories(pool)
	repos.Tx = pgTransactor{pool: pool}
	return repos
}

func newPostgresRepositories(db DBTX) Repositories {
	return Repositories{
		Principals:   NewPrincipalRepository(db),
		Permissions:  NewPermissionRepository(db),
		Companies:    NewCompanyRepository(db),
		Officers:     NewOfficerRepository(db),
		Applications: NewApplicationRepository(db),
		Tasks:        NewTaskRepository(db),
		History:      NewApplicationHistoryRepository(db),
	}
}

type pgTransactor struct {
	pool *pgxpool.Pool
}

func (t pgTransactor) WithTx(ctx context.Context, fn func(Repositories) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(newPostgresRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Repositories exposes the memory store through the same bundle.
func (s *MemoryStore) Repositories() Repositories {
	repos := Repositories{
		Principals:   s.Principals(),
		Permissions:  s.Permissions(),
		Companies:    s.Companies(),
		Officers:     s.Officers(),
		Applications: s.Applications(),
		Tasks:        s.Tasks(),
		History:      s.History(),
	}
	if !s.inTx() {
		repos.Tx = s
	}
	return repos
}

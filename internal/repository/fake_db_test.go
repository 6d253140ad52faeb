package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"skill-bridge/internal/database"
)

type execCall struct {
	query string
	args  []any
}

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: want %d columns, got %d", len(row), len(dest))
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			v, ok := row[i].(string)
			if !ok {
				return fmt.Errorf("scan type mismatch string at %d", i)
			}
			*d = v
		case *time.Time:
			v, ok := row[i].(time.Time)
			if !ok {
				return fmt.Errorf("scan type mismatch time at %d", i)
			}
			*d = v
		default:
			return fmt.Errorf("unsupported scan type %T", dest[i])
		}
	}
	return nil
}

// fakeDB serves queries by table name and records every write.
type fakeDB struct {
	tables map[string][][]any
	execs  []execCall

	execErr    map[string]error
	affected   int64
	committed  int
	rolledBack int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		tables:   map[string][][]any{},
		execErr:  map[string]error{},
		affected: 1,
	}
}

func (db *fakeDB) Ping(context.Context) error { return nil }
func (db *fakeDB) Close() error               { return nil }
func (db *fakeDB) SQLDB() *sql.DB             { return nil }

func (db *fakeDB) Begin(context.Context) (database.Tx, error) {
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	db.execs = append(db.execs, execCall{query: query, args: args})
	for frag, err := range db.execErr {
		if strings.Contains(query, frag) {
			return 0, err
		}
	}
	return db.affected, nil
}

func (db *fakeDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	from := strings.Fields(query[strings.Index(query, "FROM")+len("FROM"):])[0]
	return &fakeRows{data: db.tables[from]}, nil
}

func (db *fakeDB) QueryRow(context.Context, string, ...any) database.Row {
	return &fakeRows{}
}

func (db *fakeDB) execsMatching(frag string) []execCall {
	out := make([]execCall, 0)
	for _, c := range db.execs {
		if strings.Contains(c.query, frag) {
			out = append(out, c)
		}
	}
	return out
}

type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return t.db.Exec(ctx, query, args...)
}

func (t *fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, query, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.db.QueryRow(ctx, query, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.db.committed++
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.db.rolledBack++
	return nil
}

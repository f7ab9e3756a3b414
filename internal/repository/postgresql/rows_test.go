package postgresql

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// brokenRows simulates a connection dropped during iteration: Next
// returns false with the failure held on the rows object.
type brokenRows struct {
	err error
}

var _ pgx.Rows = (*brokenRows)(nil)

func (r *brokenRows) Close()                                       {}
func (r *brokenRows) Err() error                                   { return r.err }
func (r *brokenRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *brokenRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *brokenRows) Next() bool                                   { return false }
func (r *brokenRows) Scan(dest ...any) error                       { return r.err }
func (r *brokenRows) Values() ([]any, error)                       { return nil, r.err }
func (r *brokenRows) RawValues() [][]byte                          { return nil }
func (r *brokenRows) Conn() *pgx.Conn                              { return nil }

func TestCollectRecords_SurfacesIterationError(t *testing.T) {
	connErr := errors.New("connection reset")

	records, err := collectRecords(&brokenRows{err: connErr})

	assert.ErrorIs(t, err, connErr)
	assert.Nil(t, records, "a failed iteration must never yield a partial record set")
}

func TestCollectSourceRows_SurfacesIterationError(t *testing.T) {
	connErr := errors.New("connection reset")

	result, err := collectSourceRows(&brokenRows{err: connErr})

	assert.ErrorIs(t, err, connErr)
	assert.Nil(t, result)
}

func TestCollectRequests_SurfacesIterationError(t *testing.T) {
	connErr := errors.New("connection reset")

	requests, err := collectRequests(&brokenRows{err: connErr})

	assert.ErrorIs(t, err, connErr)
	assert.Nil(t, requests)
}

func TestCollectHistory_SurfacesIterationError(t *testing.T) {
	connErr := errors.New("connection reset")

	history, err := collectHistory(&brokenRows{err: connErr})

	assert.ErrorIs(t, err, connErr)
	assert.Nil(t, history)
}

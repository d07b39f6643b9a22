package completions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbcomp/internal/catalog"
	"github.com/leapstack-labs/dbcomp/internal/testutil"
)

// fakeDriver hands out a pre-built connection and records the URLs it
// was asked to connect to.
type fakeDriver struct {
	db      *sql.DB
	err     error
	gotURLs []string
}

func (d *fakeDriver) Name() string { return "postgres" }

func (d *fakeDriver) Connect(_ context.Context, url string) (*sql.DB, error) {
	d.gotURLs = append(d.gotURLs, url)
	if d.err != nil {
		return nil, d.err
	}
	return d.db, nil
}

func serveCompletions(t *testing.T, h *Handlers, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/jl-db-comp/completions?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	h.Completions(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCompletions(t *testing.T) {
	tests := []struct {
		name        string
		rawQuery    string
		fallbackURL string
		setupMock   func(mock sqlmock.Sqlmock)
		wantStatus  int
		wantMessage string
		wantTables  []catalog.TableEntry
		wantColumns []catalog.ColumnEntry
	}{
		{
			name:        "bare request lists relations in public",
			fallbackURL: "postgres://localhost/dev",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"table_name", "table_type"}).
					AddRow("accounts", "BASE TABLE").
					AddRow("v_active_users", "VIEW")
				mock.ExpectQuery("FROM information_schema.tables").
					WithArgs("public", "%").
					WillReturnRows(rows)
				mock.ExpectClose()
			},
			wantStatus: http.StatusOK,
			wantTables: []catalog.TableEntry{
				{Name: "accounts", Type: "table"},
				{Name: "v_active_users", Type: "view"},
			},
		},
		{
			name:        "prefix filters tables",
			rawQuery:    "prefix=us",
			fallbackURL: "postgres://localhost/dev",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"table_name", "table_type"}).
					AddRow("user_roles", "BASE TABLE").
					AddRow("users", "BASE TABLE")
				mock.ExpectQuery("FROM information_schema.tables").
					WithArgs("public", "us%").
					WillReturnRows(rows)
				mock.ExpectClose()
			},
			wantStatus: http.StatusOK,
			wantTables: []catalog.TableEntry{
				{Name: "user_roles", Type: "table"},
				{Name: "users", Type: "table"},
			},
		},
		{
			name:        "table lists its columns in ordinal order",
			rawQuery:    "table=users",
			fallbackURL: "postgres://localhost/dev",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"column_name", "data_type"}).
					AddRow("id", "integer").
					AddRow("email", "character varying").
					AddRow("created_at", "timestamp with time zone")
				mock.ExpectQuery("FROM information_schema.columns").
					WithArgs("public", "users", "%").
					WillReturnRows(rows)
				mock.ExpectClose()
			},
			wantStatus: http.StatusOK,
			wantColumns: []catalog.ColumnEntry{
				{Name: "id", Table: "users", DataType: "integer", Type: "column"},
				{Name: "email", Table: "users", DataType: "character varying", Type: "column"},
				{Name: "created_at", Table: "users", DataType: "timestamp with time zone", Type: "column"},
			},
		},
		{
			name:        "schema_or_table naming a schema lists its relations",
			rawQuery:    "schema_or_table=SALES&prefix=or",
			fallbackURL: "postgres://localhost/dev",
			setupMock: func(mock sqlmock.Sqlmock) {
				probe := sqlmock.NewRows([]string{"schema_name"}).AddRow("sales")
				mock.ExpectQuery("FROM information_schema.schemata").
					WithArgs("SALES").
					WillReturnRows(probe)
				rows := sqlmock.NewRows([]string{"table_name", "table_type"}).
					AddRow("orders", "BASE TABLE")
				mock.ExpectQuery("FROM information_schema.tables").
					WithArgs("sales", "or%").
					WillReturnRows(rows)
				mock.ExpectClose()
			},
			wantStatus: http.StatusOK,
			wantTables: []catalog.TableEntry{
				{Name: "orders", Type: "table"},
			},
		},
		{
			name:        "schema_or_table not naming a schema lists table columns",
			rawQuery:    "schema_or_table=users",
			fallbackURL: "postgres://localhost/dev",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM information_schema.schemata").
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"schema_name"}))
				rows := sqlmock.NewRows([]string{"column_name", "data_type"}).
					AddRow("id", "integer")
				mock.ExpectQuery("FROM information_schema.columns").
					WithArgs("public", "users", "%").
					WillReturnRows(rows)
				mock.ExpectClose()
			},
			wantStatus: http.StatusOK,
			wantColumns: []catalog.ColumnEntry{
				{Name: "id", Table: "users", DataType: "integer", Type: "column"},
			},
		},
		{
			name:        "database failure returns the first error line",
			fallbackURL: "postgres://localhost/dev",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM information_schema.tables").
					WillReturnError(errors.New("connection refused\nDETAIL: server not listening"))
				mock.ExpectClose()
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Database error: failed to query tables: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			drv := &fakeDriver{db: db}
			h := NewHandlers(drv, tt.fallbackURL, testutil.NewTestLogger(t))

			rec := serveCompletions(t, h, tt.rawQuery)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Tables)
			require.NotNil(t, env.Columns)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, statusSuccess, env.Status)
			} else {
				assert.Equal(t, statusError, env.Status)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, env.Message)
			}
			if tt.wantTables != nil {
				assert.Equal(t, tt.wantTables, env.Tables)
				assert.Empty(t, env.Columns)
			}
			if tt.wantColumns != nil {
				assert.Equal(t, tt.wantColumns, env.Columns)
				assert.Empty(t, env.Tables)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCompletions_DriverMissing(t *testing.T) {
	h := NewHandlers(nil, "postgres://localhost/dev", testutil.NewTestLogger(t))

	rec := serveCompletions(t, h, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, statusError, env.Status)
	assert.Equal(t, driverMissingMessage, env.Message)

	// Arrays stay arrays even on errors.
	body := rec.Body.String()
	assert.Contains(t, body, `"tables":[]`)
	assert.Contains(t, body, `"columns":[]`)
}

func TestCompletions_NoURL(t *testing.T) {
	drv := &fakeDriver{}
	h := NewHandlers(drv, "", testutil.NewTestLogger(t))

	rec := serveCompletions(t, h, "prefix=us")

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, statusSuccess, env.Status)
	assert.Equal(t, noURLMessage, env.Message)
	assert.Equal(t, []catalog.TableEntry{}, env.Tables)
	assert.Equal(t, []catalog.ColumnEntry{}, env.Columns)
	assert.Empty(t, drv.gotURLs, "no connection may be opened without a URL")
}

func TestCompletions_ConnectFailure(t *testing.T) {
	drv := &fakeDriver{err: errors.New("connection refused\nIs the server running on that host?")}
	h := NewHandlers(drv, "postgres://localhost/dev", testutil.NewTestLogger(t))

	rec := serveCompletions(t, h, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, statusError, env.Status)
	assert.Equal(t, "Database error: connection refused", env.Message)
}

func TestCompletions_ExplicitURLDecoded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "table_type"}))
	mock.ExpectClose()

	drv := &fakeDriver{db: db}
	h := NewHandlers(drv, "postgres://unused/fallback", testutil.NewTestLogger(t))

	// The client percent-encodes the connection string before putting it
	// in the query, so it arrives needing one more decode than the query
	// parser already did.
	rec := serveCompletions(t, h, "db_url=postgres%253A%252F%252Flocalhost%252Fdb")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, drv.gotURLs, 1)
	assert.Equal(t, "postgres://localhost/db", drv.gotURLs[0])
}

func TestCompletions_ConnectionReleasedOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectClose()

	drv := &fakeDriver{db: db}
	h := NewHandlers(drv, "postgres://localhost/dev", testutil.NewTestLogger(t))

	rec := serveCompletions(t, h, "table=missing")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "connection must be closed on failure")
}

func TestWriteError_Unexpected(t *testing.T) {
	h := NewHandlers(&fakeDriver{}, "", testutil.NewTestLogger(t))

	rec := httptest.NewRecorder()
	h.writeError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, statusError, env.Status)
	assert.Equal(t, "Server error: boom", env.Message)
	assert.Equal(t, []catalog.TableEntry{}, env.Tables)
	assert.Equal(t, []catalog.ColumnEntry{}, env.Columns)
}

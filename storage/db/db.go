// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives loaded benchmark tables in a SQL database so
// that a run can be charted again later without its input file.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/ksudra/golplot/benchtab"
)

// ErrNoUpload is returned when an upload ID does not exist.
var ErrNoUpload = errors.New("no such upload")

// DB is a results archive backed by a SQL database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	insertResult *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to limit the pool to one connection.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Source VARCHAR(1024),
	Created BIGINT
);
CREATE TABLE IF NOT EXISTS Results (
	UploadID BIGINT UNSIGNED,
	ResultID BIGINT UNSIGNED,
	Name VARCHAR(1024),
	Time DOUBLE,
	RangeValue VARCHAR(255),
	PRIMARY KEY (UploadID, ResultID),
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(Source, Created) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertResult, err = db.sql.Prepare("INSERT INTO Results(UploadID, ResultID, Name, Time, RangeValue) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// now is overridden by tests.
var now = time.Now

// An Upload is a set of results stored under one upload ID.
type Upload struct {
	// ID identifies the upload to LoadUpload.
	ID string

	// id is the numeric value used as the primary key.
	id int64
	// resultid is the index of the next result to insert.
	resultid int64
	// db is the underlying database that this upload is going to.
	db *DB
}

// NewUpload returns an upload for storing new results. source
// describes where the results came from, usually the input file name.
func (db *DB) NewUpload(ctx context.Context, source string) (*Upload, error) {
	res, err := db.insertUpload.ExecContext(ctx, source, now().Unix())
	if err != nil {
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Upload{
		ID: strconv.FormatInt(i, 10),
		id: i,
		db: db,
	}, nil
}

// InsertTable appends every row of t to the upload in a single
// transaction. t must have the name, time and range columns produced
// by benchtab.
func (u *Upload) InsertTable(ctx context.Context, t *table.Table) (err error) {
	names, ok1 := t.Column(benchtab.Name).([]string)
	times, ok2 := t.Column(benchtab.Time).([]float64)
	ranges, ok3 := t.Column(benchtab.Range).([]string)
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("table must have string %q, float64 %q and string %q columns",
			benchtab.Name, benchtab.Time, benchtab.Range)
	}

	tx, err := u.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	stmt := tx.StmtContext(ctx, u.db.insertResult)
	id := u.resultid
	for i := range names {
		if _, err := stmt.ExecContext(ctx, u.id, id, names[i], times[i], ranges[i]); err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
		id++
	}
	u.resultid = id
	return nil
}

// parseID converts a public upload ID to its primary key.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("upload %q: %w", id, ErrNoUpload)
	}
	return n, nil
}

// LoadUpload returns the results of upload id as a table with the
// name, time and range columns, in insertion order.
func (db *DB) LoadUpload(ctx context.Context, id string) (*table.Table, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var source string
	err = db.sql.QueryRowContext(ctx, "SELECT Source FROM Uploads WHERE UploadID = ?", n).Scan(&source)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("upload %q: %w", id, ErrNoUpload)
	} else if err != nil {
		return nil, err
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT Name, Time, RangeValue FROM Results WHERE UploadID = ? ORDER BY ResultID", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names, times, ranges := []string{}, []float64{}, []string{}
	for rows.Next() {
		var name, rng string
		var tm float64
		if err := rows.Scan(&name, &tm, &rng); err != nil {
			return nil, err
		}
		names = append(names, name)
		times = append(times, tm)
		ranges = append(ranges, rng)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return new(table.Builder).
		Add(benchtab.Name, names).
		Add(benchtab.Time, times).
		Add(benchtab.Range, ranges).
		Done(), nil
}

// UploadInfo describes a stored upload.
type UploadInfo struct {
	ID      string
	Source  string
	Created time.Time
	Count   int // number of results
}

// ListUploads returns the most recent uploads, newest first. If
// limit is positive, at most limit uploads are returned.
func (db *DB) ListUploads(ctx context.Context, limit int) ([]UploadInfo, error) {
	query := `SELECT u.UploadID, u.Source, u.Created, COUNT(r.ResultID)
		FROM Uploads u LEFT JOIN Results r ON r.UploadID = u.UploadID
		GROUP BY u.UploadID, u.Source, u.Created
		ORDER BY u.UploadID DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []UploadInfo
	for rows.Next() {
		var id, created int64
		var info UploadInfo
		if err := rows.Scan(&id, &info.Source, &created, &info.Count); err != nil {
			return nil, err
		}
		info.ID = strconv.FormatInt(id, 10)
		info.Created = time.Unix(created, 0)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Uploads").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertUpload.Close(); err != nil {
		return err
	}
	if err := db.insertResult.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}

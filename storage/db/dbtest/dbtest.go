// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"

	"github.com/ksudra/golplot/storage/db"
	_ "github.com/ksudra/golplot/storage/db/sqlite3"
)

var mysqlDSN = flag.String("mysql", "", "run database tests against a scratch database on this MySQL server (user:pass@tcp(host)/) instead of in-memory SQLite")
var cloudsql = flag.String("cloudsql", "", "run database tests against a scratch database on this Cloud SQL `instance` (project:region:name) instead of in-memory SQLite")

// cloudSQLPrefix returns the DSN prefix that reaches instance through
// the Cloud SQL dialer.
func cloudSQLPrefix(instance string) string {
	return fmt.Sprintf("root:@cloudsql(%s)/", instance)
}

// createEmptyMySQLDB makes a new, empty database for the test.
func createEmptyMySQLDB(t *testing.T, prefix string) (dsn string, cleanup func()) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	name := "golplot_test_" + hex.EncodeToString(buf)

	db, err := sql.Open("mysql", prefix)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		db.Close()
		t.Fatal(err)
	}
	t.Logf("Using database %q", name)

	return prefix + name, func() {
		if _, err := db.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Error(err)
		}
		db.Close()
	}
}

// NewDB makes a connection to a testing database, either sqlite3 or
// MySQL depending on the -mysql and -cloudsql flags. The database is
// closed when the test finishes.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	var mysqlCleanup func()
	switch {
	case *mysqlDSN != "" && *cloudsql != "":
		t.Fatal("-mysql and -cloudsql are mutually exclusive")
	case *mysqlDSN != "":
		driverName = "mysql"
		dataSourceName, mysqlCleanup = createEmptyMySQLDB(t, *mysqlDSN)
	case *cloudsql != "":
		driverName = "mysql"
		dataSourceName, mysqlCleanup = createEmptyMySQLDB(t, cloudSQLPrefix(*cloudsql))
	}
	d, err := db.OpenSQL(driverName, dataSourceName)
	if err != nil {
		if mysqlCleanup != nil {
			mysqlCleanup()
		}
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
		if mysqlCleanup != nil {
			mysqlCleanup()
		}
	})

	// Make sure the database really is empty.
	uploads, err := d.CountUploads(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if uploads != 0 {
		t.Fatalf("found %d row(s) in Uploads, want 0", uploads)
	}
	return d
}

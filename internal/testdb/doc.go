// Package testdb provides Postgres databases for integration tests.
//
// Tests using it carry the integration build tag and are skipped unless
// MEDLEX_TEST_DATABASE_URL (or DATABASE_URL) points at a disposable
// database. Open applies the embedded migrations once per process; WithTx
// runs a test inside a transaction that is always rolled back, so tests can
// share one database and run in parallel.
//
//	func TestTermStore(t *testing.T) {
//		db := testdb.Open(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			terms := postgres.NewPostgresTermStore(tx, nil)
//			...
//		})
//	}
package testdb

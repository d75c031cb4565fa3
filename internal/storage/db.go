package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/willi202202/rechnungen-sort/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL,
  hash TEXT NOT NULL,
  provider TEXT,
  status TEXT NOT NULL,
  scannedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(hash)
);
CREATE INDEX IF NOT EXISTS idx_documents_provider ON documents(provider);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  provider TEXT NOT NULL,
  date TEXT,
  amount TEXT NOT NULL,
  rawAmount TEXT,
  fromDate TEXT,
  toDate TEXT,
  file TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS strom_objects (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  invoiceNumber TEXT,
  object TEXT NOT NULL,
  periodFrom TEXT,
  periodTo TEXT,
  rowJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS verifications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  stromObjectId INTEGER NOT NULL UNIQUE,
  monthsBilled INTEGER NOT NULL,
  recalcTotal TEXT NOT NULL,
  statedTotal TEXT NOT NULL,
  delta TEXT NOT NULL,
  ok INTEGER NOT NULL,
  resultJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(stromObjectId) REFERENCES strom_objects(id)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// UpsertDocument records one scanned file keyed by content hash, so
// rescanning an already-sorted inbox stays idempotent.
func (d *DB) UpsertDocument(filename, hash, provider string, status internal.ScanStatus) (int64, error) {
	_, err := d.conn.Exec(`
INSERT INTO documents (filename, hash, provider, status)
VALUES (?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET
  filename=excluded.filename,
  provider=excluded.provider,
  status=excluded.status,
  scannedAt=CURRENT_TIMESTAMP
`, filename, hash, provider, string(status))
	if err != nil {
		return 0, err
	}

	var id int64
	if err := d.conn.QueryRow(`SELECT id FROM documents WHERE hash = ?`, hash).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (d *DB) ClearDocumentResults(documentID int64) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
DELETE FROM verifications WHERE stromObjectId IN (SELECT id FROM strom_objects WHERE documentId = ?)
`, documentID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM strom_objects WHERE documentId = ?`, documentID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM records WHERE documentId = ?`, documentID); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *DB) InsertRecord(documentID int64, provider string, rec internal.Record) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO records (documentId, provider, date, amount, rawAmount, fromDate, toDate, file)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, documentID, provider, rec.Date, rec.Amount.String(), rec.RawAmount, rec.FromDate, rec.ToDate, rec.File)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) InsertStromObject(documentID int64, row internal.StromObjectRow) (int64, error) {
	rowJSON, err := json.Marshal(row)
	if err != nil {
		return 0, err
	}
	result, err := d.conn.Exec(`
INSERT INTO strom_objects (documentId, invoiceNumber, object, periodFrom, periodTo, rowJson)
VALUES (?, ?, ?, ?, ?, ?)
`, documentID, row.InvoiceNumber, row.Object, row.PeriodFrom, row.PeriodTo, string(rowJSON))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) InsertVerification(stromObjectID int64, res internal.VerifyResult) error {
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return err
	}
	ok := 0
	if res.OK {
		ok = 1
	}
	_, err = d.conn.Exec(`
INSERT INTO verifications (stromObjectId, monthsBilled, recalcTotal, statedTotal, delta, ok, resultJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(stromObjectId) DO UPDATE SET
  monthsBilled=excluded.monthsBilled,
  recalcTotal=excluded.recalcTotal,
  statedTotal=excluded.statedTotal,
  delta=excluded.delta,
  ok=excluded.ok,
  resultJson=excluded.resultJson,
  createdAt=CURRENT_TIMESTAMP
`, stromObjectID, res.BaseFeeMonths, res.RecalcTotal.String(), res.StatedTotal.String(), res.Delta.String(), ok, string(resultJSON))
	return err
}

// ListRecords returns the extracted records of one provider in insertion
// order.
func (d *DB) ListRecords(provider string) ([]internal.Record, error) {
	rows, err := d.conn.Query(`
SELECT date, amount, rawAmount, fromDate, toDate, file
FROM records WHERE provider = ? ORDER BY id ASC
`, provider)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Record
	for rows.Next() {
		var rec internal.Record
		var amount string
		if err := rows.Scan(&rec.Date, &amount, &rec.RawAmount, &rec.FromDate, &rec.ToDate, &rec.File); err != nil {
			return nil, err
		}
		if err := rec.Amount.UnmarshalText([]byte(amount)); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// VerifiedObject pairs a stored object row with its verification.
type VerifiedObject struct {
	Row    internal.StromObjectRow
	Result internal.VerifyResult
}

func (d *DB) ListVerifiedObjects() ([]VerifiedObject, error) {
	rows, err := d.conn.Query(`
SELECT o.rowJson, v.resultJson
FROM strom_objects o
JOIN verifications v ON v.stromObjectId = o.id
ORDER BY o.id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VerifiedObject
	for rows.Next() {
		var rowJSON, resultJSON string
		if err := rows.Scan(&rowJSON, &resultJSON); err != nil {
			return nil, err
		}
		var vo VerifiedObject
		if err := json.Unmarshal([]byte(rowJSON), &vo.Row); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(resultJSON), &vo.Result); err != nil {
			return nil, err
		}
		out = append(out, vo)
	}
	return out, rows.Err()
}

// DocumentIDByHash returns the stored document id, or sql.ErrNoRows wrapped
// as a nil id.
func (d *DB) DocumentIDByHash(hash string) (int64, bool, error) {
	var id int64
	err := d.conn.QueryRow(`SELECT id FROM documents WHERE hash = ?`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

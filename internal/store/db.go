package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"econfetch/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the sqlite database and creates the schema.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	fetchTable := `
	CREATE TABLE IF NOT EXISTS fetches (
		id TEXT PRIMARY KEY,
		dataset TEXT,
		category TEXT,
		origin TEXT,
		status TEXT,
		row_count INTEGER,
		provenance TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS fetch_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fetch_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	rowTable := `
	CREATE TABLE IF NOT EXISTS fetch_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fetch_id TEXT,
		date TEXT,
		item_id TEXT,
		value REAL,
		valid INTEGER,
		name TEXT,
		unit TEXT,
		category TEXT,
		source TEXT
	);
	`

	for _, stmt := range []string{fetchTable, errorTable, rowTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveFetch stores a new fetch job in pending state.
func SaveFetch(fetchID string, req model.DatasetRequest) error {
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO fetches (id, dataset, category, status, row_count, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?)`,
		fetchID, req.Dataset, req.Category, "pending", now, now)
	return err
}

// UpdateFetchStatus updates a fetch job's status.
func UpdateFetchStatus(fetchID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE fetches SET status = ?, updated_at = ? WHERE id = ?`, status, now, fetchID)
	return err
}

// SaveFetchError records an error for a fetch job.
func SaveFetchError(fetchID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO fetch_errors (fetch_id, error_message, created_at) VALUES (?, ?, ?)`,
		fetchID, err.Error(), now)
	return e
}

// SaveResult persists a completed fetch: provenance on the fetch row and
// every table row for later retrieval.
func SaveResult(fetchID string, result *model.FetchResult) error {
	provJSON, err := json.Marshal(result.Provenance)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(
		`UPDATE fetches SET status = ?, origin = ?, row_count = ?, provenance = ?, updated_at = ? WHERE id = ?`,
		"completed", string(result.Provenance.Origin), result.Table.Len(), provJSON, now, fetchID)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		`INSERT INTO fetch_rows (fetch_id, date, item_id, value, valid, name, unit, category, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range result.Table.Rows {
		valid := 0
		if row.Valid {
			valid = 1
		}
		if _, err := stmt.Exec(fetchID, row.Date.Format("2006-01-02"), row.ItemID,
			row.Value, valid, row.Name, row.Unit, row.Category, row.Source); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ListFetches returns all fetch jobs, newest first.
func ListFetches() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, dataset, category, status, row_count, created_at, updated_at FROM fetches ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fetches []map[string]interface{}
	for rows.Next() {
		var id, dataset, category, status string
		var rowCount int
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &dataset, &category, &status, &rowCount, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		fetches = append(fetches, map[string]interface{}{
			"id":        id,
			"dataset":   dataset,
			"category":  category,
			"status":    status,
			"rowCount":  rowCount,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return fetches, rows.Err()
}

// GetFetch returns one fetch job with its provenance, if recorded.
func GetFetch(fetchID string) (map[string]interface{}, error) {
	var dataset, category, status string
	var origin, provJSON sql.NullString
	var rowCount int
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT dataset, category, origin, status, row_count, provenance, created_at, updated_at FROM fetches WHERE id = ?`, fetchID).
		Scan(&dataset, &category, &origin, &status, &rowCount, &provJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	out := map[string]interface{}{
		"id":        fetchID,
		"dataset":   dataset,
		"category":  category,
		"status":    status,
		"rowCount":  rowCount,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}
	if origin.Valid {
		out["origin"] = origin.String
	}
	if provJSON.Valid && provJSON.String != "" {
		var prov model.Provenance
		if err := json.Unmarshal([]byte(provJSON.String), &prov); err == nil {
			out["provenance"] = prov
		}
	}
	return out, nil
}

// GetFetchErrors returns the recorded errors for a fetch job.
func GetFetchErrors(fetchID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM fetch_errors WHERE fetch_id = ? ORDER BY created_at`, fetchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var msg string
		var createdAt time.Time
		if err := rows.Scan(&msg, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]interface{}{
			"message":   msg,
			"createdAt": createdAt,
		})
	}
	return out, rows.Err()
}

// GetResultRows returns up to limit persisted rows of a completed fetch.
func GetResultRows(fetchID string, limit int) ([]model.Row, error) {
	rows, err := db.Query(
		`SELECT date, item_id, value, valid, name, unit, category, source FROM fetch_rows WHERE fetch_id = ? ORDER BY id LIMIT ?`,
		fetchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var dateStr string
		var valid int
		var row model.Row
		if err := rows.Scan(&dateStr, &row.ItemID, &row.Value, &valid, &row.Name, &row.Unit, &row.Category, &row.Source); err != nil {
			return nil, err
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}
		row.Date = date
		row.Valid = valid == 1
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteFetch removes a fetch job and its rows and errors.
func DeleteFetch(fetchID string) error {
	for _, stmt := range []string{
		`DELETE FROM fetch_rows WHERE fetch_id = ?`,
		`DELETE FROM fetch_errors WHERE fetch_id = ?`,
		`DELETE FROM fetches WHERE id = ?`,
	} {
		if _, err := db.Exec(stmt, fetchID); err != nil {
			return err
		}
	}
	return nil
}

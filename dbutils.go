package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func openDB(dbPath string) (*sql.DB, error) {
	// Open or create the SQLite database
	return sql.Open("sqlite3", dbPath)
}

func initializeDB(dbPath string) (*sql.DB, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = createSQLiteTables(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createSQLiteTables(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS podcasts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL COLLATE NOCASE UNIQUE,
		folderPath TEXT NOT NULL,
		lastSeen TEXT NOT NULL DEFAULT (datetime('now'))
	);`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS episodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		podcastId INTEGER NOT NULL,
		fileName TEXT NOT NULL COLLATE NOCASE,
		FOREIGN KEY (podcastId) REFERENCES podcasts(id),
		CONSTRAINT idx_podcast_file UNIQUE (podcastId, fileName)
	);`)
	return err
}

func insertPodcast(db *sql.DB, name string, folderPath Path) (int64, error) {
	var lastInsertID int64
	err := db.QueryRow("INSERT OR IGNORE INTO podcasts (name, folderPath) VALUES (?, ?) RETURNING id",
		name, string(folderPath)).Scan(&lastInsertID)
	if err == sql.ErrNoRows {
		// Already present; update the folder path in case the archive moved.
		if _, err := db.Exec("UPDATE podcasts SET folderPath = ?, lastSeen = datetime('now') WHERE name = ?",
			string(folderPath), name); err != nil {
			return 0, err
		}
		err = db.QueryRow("SELECT id FROM podcasts WHERE name = ?", name).Scan(&lastInsertID)
	}
	if err != nil {
		return 0, err
	}
	return lastInsertID, nil
}

// recordPodcastFiles stores the archive's current audio files and returns the
// names that were not recorded on a previous run. Rows for files no longer in
// the archive are removed.
func recordPodcastFiles(db *sql.DB, podcastID int64, files []Path) ([]string, error) {
	known := map[string]bool{}
	rows, err := db.Query("SELECT fileName FROM episodes WHERE podcastId = ?", podcastID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		known[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO episodes (podcastId, fileName) VALUES (?, ?)")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	// Collect the current file names in a temporary table so rows for files
	// that disappeared from the archive can be pruned in the same transaction.
	if _, err := tx.Exec("CREATE TEMPORARY TABLE temp_present (fileName TEXT NOT NULL COLLATE NOCASE)"); err != nil {
		return nil, err
	}
	presentStmt, err := tx.Prepare("INSERT INTO temp_present (fileName) VALUES (?)")
	if err != nil {
		return nil, err
	}
	defer presentStmt.Close()

	var newFiles []string
	for _, file := range files {
		name := file.lastPathComponent()
		if _, err := stmt.Exec(podcastID, name); err != nil {
			return nil, err
		}
		if _, err := presentStmt.Exec(name); err != nil {
			return nil, err
		}
		if !known[name] {
			newFiles = append(newFiles, name)
		}
	}

	if _, err := tx.Exec("DELETE FROM episodes WHERE podcastId = ? AND fileName NOT IN (SELECT fileName FROM temp_present)", podcastID); err != nil {
		return nil, err
	}
	// Temp tables live for the connection, not the transaction.
	if _, err := tx.Exec("DROP TABLE temp_present"); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return newFiles, nil
}

package anon

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	version "github.com/hashicorp/go-version"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const (
	MAPPING_TOKENS_TABLE = "anonymized_tokens"
	MAPPING_META_TABLE   = "mapping_store_metadata"

	SQLITE_OPTIONS = "?_txlock=exclusive&_timeout=30000"
)

// MappingStore is a sqlite store that carries mapping tables across batch
// runs, so a later batch over new fixture files reuses the synthetic values
// assigned by earlier runs. Single-process access only; the engine itself
// is single-threaded.
type MappingStore struct {
	db *sql.DB
}

func GetMappingStorePath(outputDir string) string {
	return filepath.Join(outputDir, "metainfo", "mappings.db")
}

func NewMappingStore(path string) (*MappingStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create mapping store dir: %w", err)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s%s", path, SQLITE_OPTIONS))
	if err != nil {
		return nil, fmt.Errorf("error while opening mapping store: %w", err)
	}
	return &MappingStore{db: db}, nil
}

// Init creates the store tables if needed and records toolVersion on first
// use. A store written by a newer major version of the tool is rejected,
// since its contents may use naming rules this version does not understand.
func (s *MappingStore) Init(toolVersion string) error {
	createTokensSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		original TEXT NOT NULL,
		synthetic TEXT NOT NULL,
		UNIQUE(category, original)
	);`, MAPPING_TOKENS_TABLE)
	if _, err := s.db.Exec(createTokensSQL); err != nil {
		return fmt.Errorf("error creating %s table: %w", MAPPING_TOKENS_TABLE, err)
	}

	createMetaSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`, MAPPING_META_TABLE)
	if _, err := s.db.Exec(createMetaSQL); err != nil {
		return fmt.Errorf("error creating %s table: %w", MAPPING_META_TABLE, err)
	}

	insertVersionSQL := fmt.Sprintf(
		`INSERT OR IGNORE INTO %s (key, value) VALUES ('tool_version', ?)`, MAPPING_META_TABLE)
	if _, err := s.db.Exec(insertVersionSQL, toolVersion); err != nil {
		return fmt.Errorf("record tool version: %w", err)
	}

	return s.checkVersionCompatibility(toolVersion)
}

func (s *MappingStore) checkVersionCompatibility(toolVersion string) error {
	var stored string
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = 'tool_version'`, MAPPING_META_TABLE)
	if err := s.db.QueryRow(query).Scan(&stored); err != nil {
		return fmt.Errorf("read stored tool version: %w", err)
	}

	storedVersion, err := version.NewVersion(stored)
	if err != nil {
		return fmt.Errorf("parse stored tool version %q: %w", stored, err)
	}
	currentVersion, err := version.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("parse tool version %q: %w", toolVersion, err)
	}

	if storedVersion.Segments()[0] > currentVersion.Segments()[0] {
		return fmt.Errorf("mapping store was created by jiranon %s, which is newer than this version (%s)",
			stored, toolVersion)
	}
	if storedVersion.GreaterThan(currentVersion) {
		log.Warnf("mapping store was created by jiranon %s; current version is %s", stored, toolVersion)
	}
	return nil
}

// Load replays all persisted entries into state in their original insertion
// order, so that subsequent allocations continue from the correct table
// sizes.
func (s *MappingStore) Load(state *State) error {
	query := fmt.Sprintf(
		`SELECT category, original, synthetic FROM %s ORDER BY id`, MAPPING_TOKENS_TABLE)
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("load mapping entries: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var category, original, synthetic string
		if err := rows.Scan(&category, &original, &synthetic); err != nil {
			return fmt.Errorf("scan mapping entry: %w", err)
		}
		state.Restore(category, original, synthetic)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate mapping entries: %w", err)
	}
	log.Infof("loaded %d mapping entries from store", count)
	return nil
}

// Save persists every entry of every table. Entries already present are
// left untouched, so repeated saves after incremental batches are cheap and
// never reassign.
func (s *MappingStore) Save(state *State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin mapping store tx: %w", err)
	}
	defer tx.Rollback()

	insertSQL := fmt.Sprintf(
		`INSERT OR IGNORE INTO %s (category, original, synthetic) VALUES (?, ?, ?)`,
		MAPPING_TOKENS_TABLE)
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("prepare mapping insert: %w", err)
	}
	defer stmt.Close()

	var insertErr error
	state.EachCategory(func(category string, each func(fn func(original, synthetic string))) {
		each(func(original, synthetic string) {
			if insertErr != nil {
				return
			}
			if _, err := stmt.Exec(category, original, synthetic); err != nil {
				insertErr = fmt.Errorf("insert mapping entry (%s, %q): %w", category, original, err)
			}
		})
	})
	if insertErr != nil {
		return insertErr
	}
	return tx.Commit()
}

func (s *MappingStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Package store provides a SQLite-backed catalog of parsed region
// documents. Shapes are persisted as round-trippable coordinate tokens so
// a loaded document rebuilds through the same schema machinery that parsed
// it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sargas/pyregion/region"
	"github.com/sargas/pyregion/wcs"
)

// Store handles SQLite database operations for the region catalog.
type Store struct {
	db *sql.DB
}

// Document is one stored region file.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Shapes    int       `json:"shapes"`
}

// New creates a Store backed by the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS shapes (
		document_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		shape TEXT NOT NULL,
		system TEXT NOT NULL,
		coords TEXT NOT NULL,
		properties TEXT NOT NULL,
		PRIMARY KEY (document_id, seq),
		FOREIGN KEY (document_id) REFERENCES documents(id)
	);

	CREATE INDEX IF NOT EXISTS idx_shapes_document ON shapes(document_id);
	CREATE INDEX IF NOT EXISTS idx_documents_name ON documents(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveDocument stores a shape list under a new document ID and returns it.
func (s *Store) SaveDocument(name string, shapes region.ShapeList) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO documents (id, name, created_at) VALUES (?, ?, ?)`,
		id, name, time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}

	for seq, shape := range shapes {
		coords, err := json.Marshal(shape.CoordTokens())
		if err != nil {
			return "", err
		}
		props, err := json.Marshal(shape.Properties().Map())
		if err != nil {
			return "", err
		}
		_, err = tx.Exec(
			`INSERT INTO shapes (document_id, seq, shape, system, coords, properties)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, seq, shape.Name(), shape.CoordSystem().Name(), string(coords), string(props),
		)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// LoadDocument rebuilds the shape list stored under id.
func (s *Store) LoadDocument(id string) (region.ShapeList, error) {
	rows, err := s.db.Query(
		`SELECT shape, system, coords, properties FROM shapes
		 WHERE document_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shapes region.ShapeList
	for rows.Next() {
		var name, system, coords, props string
		if err := rows.Scan(&name, &system, &coords, &props); err != nil {
			return nil, err
		}

		frame, ok := wcs.FrameByName(system)
		if !ok {
			return nil, fmt.Errorf("document %s: unknown coordinate system %q", id, system)
		}
		var toks []string
		if err := json.Unmarshal([]byte(coords), &toks); err != nil {
			return nil, fmt.Errorf("document %s: decode coordinates: %w", id, err)
		}
		overrides, err := decodeProperties(props)
		if err != nil {
			return nil, fmt.Errorf("document %s: decode properties: %w", id, err)
		}

		shape, err := region.FromCoordlist(name, toks, frame, region.NewProperties(overrides))
		if err != nil {
			return nil, fmt.Errorf("document %s: rebuild %s: %w", id, name, err)
		}
		shapes = append(shapes, shape)
	}
	return shapes, rows.Err()
}

// GetDocument retrieves document metadata by ID.
func (s *Store) GetDocument(id string) (*Document, error) {
	row := s.db.QueryRow(
		`SELECT d.id, d.name, d.created_at, COUNT(s.seq)
		 FROM documents d LEFT JOIN shapes s ON s.document_id = d.id
		 WHERE d.id = ? GROUP BY d.id`, id,
	)

	var doc Document
	if err := row.Scan(&doc.ID, &doc.Name, &doc.CreatedAt, &doc.Shapes); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns all documents, most recent first.
func (s *Store) ListDocuments() ([]*Document, error) {
	rows, err := s.db.Query(
		`SELECT d.id, d.name, d.created_at, COUNT(s.seq)
		 FROM documents d LEFT JOIN shapes s ON s.document_id = d.id
		 GROUP BY d.id ORDER BY d.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.CreatedAt, &doc.Shapes); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its shapes.
func (s *Store) DeleteDocument(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM shapes WHERE document_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM documents WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ImportText parses region-file text and stores it in one call.
func (s *Store) ImportText(name, text string) (string, error) {
	shapes, err := region.Parse(text)
	if err != nil {
		return "", err
	}
	return s.SaveDocument(name, shapes)
}

// ExportText loads a document and renders it back to region-file text.
func (s *Store) ExportText(id string) (string, error) {
	shapes, err := s.LoadDocument(id)
	if err != nil {
		return "", err
	}
	return shapes.String(), nil
}

// decodeProperties converts a stored JSON property map back into the
// override shapes NewProperties expects: strings for scalars, string
// slices for pairs and tags.
func decodeProperties(raw string) (map[string]any, error) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(decoded))
	for k, v := range decoded {
		switch tv := v.(type) {
		case []any:
			ss := make([]string, 0, len(tv))
			for _, item := range tv {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("property %q has a non-string list member", k)
				}
				ss = append(ss, s)
			}
			out[k] = ss
		case string:
			out[k] = tv
		default:
			return nil, fmt.Errorf("property %q has unsupported type %T", k, v)
		}
	}
	return out, nil
}

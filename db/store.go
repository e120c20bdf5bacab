// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/MaplrCanada/ss-petitions/petition"
)

// Store persists petitions and signatures.
type Store struct {
	db      *sql.DB
	dialect string
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open connects to the database, verifies the connection, and creates the
// schema.
func Open(dbType, url string) (*Store, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("database URL is required")
	}

	var (
		conn *sql.DB
		err  error
	)
	switch dbType {
	case DialectSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
		if err == nil {
			// One writer at a time; also keeps :memory: databases shared.
			conn.SetMaxOpenConns(1)
		}
	case DialectPostgres:
		conn, err = sql.Open("postgres", url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dbType, err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s db: %w", dbType, err)
	}
	if err := CreateSchema(conn, dbType); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Store{db: conn, dialect: dbType}, nil
}

func sqliteDSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying handle for health checks and fixtures.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect reports which database the store talks to.
func (s *Store) Dialect() string {
	return s.dialect
}

// rebind converts ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const petitionColumns = `id, title, content, category, author_id, author_name, is_anonymous, status, admin_comment, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPetition(row rowScanner) (petition.Petition, error) {
	var (
		p                  petition.Petition
		status             string
		createdAt, updated int64
	)
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.AuthorID, &p.AuthorName,
		&p.IsAnonymous, &status, &p.AdminComment, &createdAt, &updated)
	if err != nil {
		return petition.Petition{}, err
	}
	p.Status = petition.Status(status)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

// ListPetitions returns every petition with its signatures, oldest first.
func (s *Store) ListPetitions(ctx context.Context) ([]petition.Petition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+petitionColumns+` FROM petition ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query petitions: %w", err)
	}

	var petitions []petition.Petition
	index := make(map[string]int)
	for rows.Next() {
		p, err := scanPetition(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan petition: %w", err)
		}
		index[p.ID] = len(petitions)
		petitions = append(petitions, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate petitions: %w", err)
	}
	rows.Close()

	sigRows, err := s.db.QueryContext(ctx, `
		SELECT petition_id, signer_id, signer_name, signed_at
		FROM petition_signature
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer sigRows.Close()

	for sigRows.Next() {
		var (
			petitionID string
			sig        petition.Signature
			signedAt   int64
		)
		if err := sigRows.Scan(&petitionID, &sig.SignerID, &sig.SignerName, &signedAt); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		sig.SignedAt = fromMillis(signedAt)
		if i, ok := index[petitionID]; ok {
			petitions[i].Signatures = append(petitions[i].Signatures, sig)
		}
	}
	if err := sigRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}

	return petitions, nil
}

// GetPetition loads one petition with its signatures.
func (s *Store) GetPetition(ctx context.Context, id string) (petition.Petition, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+petitionColumns+` FROM petition WHERE id = ?`), id)
	p, err := scanPetition(row)
	if err == sql.ErrNoRows {
		return petition.Petition{}, petition.ErrNotFound
	}
	if err != nil {
		return petition.Petition{}, fmt.Errorf("query petition: %w", err)
	}

	sigs, err := s.signatures(ctx, id)
	if err != nil {
		return petition.Petition{}, err
	}
	p.Signatures = sigs
	return p, nil
}

func (s *Store) signatures(ctx context.Context, petitionID string) ([]petition.Signature, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT signer_id, signer_name, signed_at
		FROM petition_signature
		WHERE petition_id = ?
		ORDER BY id`), petitionID)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer rows.Close()

	var sigs []petition.Signature
	for rows.Next() {
		var (
			sig      petition.Signature
			signedAt int64
		)
		if err := rows.Scan(&sig.SignerID, &sig.SignerName, &signedAt); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		sig.SignedAt = fromMillis(signedAt)
		sigs = append(sigs, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}
	return sigs, nil
}

// InsertPetition stores a new petition and any signatures it carries.
func (s *Store) InsertPetition(ctx context.Context, p petition.Petition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO petition (`+petitionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Title, p.Content, p.Category, p.AuthorID, p.AuthorName,
		p.IsAnonymous, string(p.Status), p.AdminComment, toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert petition: %w", err)
	}

	for _, sig := range p.Signatures {
		if err := s.insertSignature(ctx, tx, p.ID, sig); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertSignature(ctx context.Context, ex execer, petitionID string, sig petition.Signature) error {
	_, err := ex.ExecContext(ctx, s.rebind(`
		INSERT INTO petition_signature (petition_id, signer_id, signer_name, signed_at)
		VALUES (?, ?, ?, ?)`),
		petitionID, sig.SignerID, sig.SignerName, toMillis(sig.SignedAt))
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return petition.ErrAlreadySigned
	case isForeignKeyViolation(err):
		return petition.ErrNotFound
	default:
		return fmt.Errorf("insert signature: %w", err)
	}
}

// AddSignature records one signature. A second signature by the same signer
// returns petition.ErrAlreadySigned.
func (s *Store) AddSignature(ctx context.Context, petitionID string, sig petition.Signature) error {
	return s.insertSignature(ctx, s.db, petitionID, sig)
}

// UpdateStatus moves a petition from one status to another. The update only
// applies if the stored status still equals from.
func (s *Store) UpdateStatus(ctx context.Context, id string, from, to petition.Status, comment string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE petition
		SET status = ?, admin_comment = ?, updated_at = ?
		WHERE id = ? AND status = ?`),
		string(to), comment, toMillis(at), id, string(from))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return petition.ErrNotFound
	}
	// Someone else changed the status first
	return petition.ErrIllegalTransition
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM petition WHERE id = ?`), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query petition: %w", err)
	}
	return true, nil
}

// DeletePetition removes a petition and its signatures.
func (s *Store) DeletePetition(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM petition_signature WHERE petition_id = ?`), id); err != nil {
		return fmt.Errorf("delete signatures: %w", err)
	}

	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM petition WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete petition: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return petition.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}

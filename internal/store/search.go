package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchIndex runs the text searches behind the search façade. PostgreSQL
// uses english full-text search ranked by ts_rank; SQLite falls back to
// case-insensitive substring matching on the same columns.
type SearchIndex struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSearchIndex returns an index over db. now decides announcement expiry
// and defaults to UTC wall time.
func NewSearchIndex(db *gorm.DB, now func() time.Time) *SearchIndex {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &SearchIndex{db: db, now: now}
}

// Document returns the expression full-text indexes are built on, so that
// queries and GIN indexes stay in step.
func Document(columns ...string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = "coalesce(" + c + ", '')"
	}
	return "to_tsvector('english', " + strings.Join(parts, " || ' ' || ") + ")"
}

func (s *SearchIndex) Apartments(ctx context.Context, term string) ([]Row, error) {
	q := s.db.WithContext(ctx).Table("apartments")
	return s.run(s.match(q, term, "id", "name", "description"), "search apartments")
}

// Complaints matches title and description and carries the resident's name
// and the apartment name along.
func (s *SearchIndex) Complaints(ctx context.Context, term string) ([]Row, error) {
	q := s.db.WithContext(ctx).Table("complaints c").
		Select("c.*, u.first_name, u.last_name, a.name AS apartment_name").
		Joins("JOIN users u ON c.resident_id = u.id").
		Joins("JOIN apartments a ON c.apartment_id = a.id")
	return s.run(s.match(q, term, "c.id", "c.title", "c.description"), "search complaints")
}

// Announcements only returns active announcements that have not expired.
func (s *SearchIndex) Announcements(ctx context.Context, term string) ([]Row, error) {
	q := s.db.WithContext(ctx).Table("announcements an").
		Select("an.*, u.first_name, u.last_name").
		Joins("JOIN users u ON an.created_by_id = u.id").
		Where("an.active = ?", true).
		Where("(an.expiry_date IS NULL OR an.expiry_date > ?)", s.now().UTC())
	return s.run(s.match(q, term, "an.id", "an.title", "an.content"), "search announcements")
}

// Users is a substring match on names and email over active users.
func (s *SearchIndex) Users(ctx context.Context, term string) ([]Row, error) {
	like := "%" + strings.ToLower(term) + "%"
	q := s.db.WithContext(ctx).Table("users").
		Select("id, first_name, last_name, email, phone, role").
		Where("(lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?)", like, like, like).
		Where("active = ?", true).
		Order("id")
	return s.run(q, "search users")
}

// match filters q on term over columns. On SQLite rows come back in id order.
func (s *SearchIndex) match(q *gorm.DB, term, id string, columns ...string) *gorm.DB {
	if IsPostgres(s.db) {
		doc := Document(columns...)
		return q.Where(doc+" @@ plainto_tsquery('english', ?)", term).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ts_rank(" + doc + ", plainto_tsquery('english', ?)) DESC",
				Vars:               []interface{}{term},
				WithoutParentheses: true,
			}})
	}
	like := "%" + strings.ToLower(term) + "%"
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		conds[i] = "lower(" + c + ") LIKE ?"
		args[i] = like
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...).Order(id)
}

func (s *SearchIndex) run(q *gorm.DB, op string) ([]Row, error) {
	rows := []map[string]interface{}{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, Wrap(op, err)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows, nil
}

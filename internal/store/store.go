package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store defines the persistence operations shared by every collection.
// Documents are schemaless maps; the store assigns each one a generated id
// and returns it back to callers under the "_id" key.
type Store interface {
	Insert(ctx context.Context, c Collection, doc map[string]any) (string, error)
	FetchAll(ctx context.Context, c Collection) ([]map[string]any, error)
	FetchByID(ctx context.Context, c Collection, id string) (map[string]any, error)
	FetchByParent(ctx context.Context, c Collection, parentID string) ([]map[string]any, error)
	UpdateByID(ctx context.Context, c Collection, id string, fields map[string]any) (UpdateResult, error)
	DeleteByID(ctx context.Context, c Collection, id string) (int64, error)

	// Transaction runs fn with a Store bound to a single database
	// transaction; any error from fn rolls the whole transaction back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	DB() *gorm.DB
}

// document is the physical row shape shared by every collection table. The
// caller-supplied fields live in Doc; ParentID is a lifted copy of the
// collection's parent-reference key, kept in its own column so parent
// lookups stay plain indexed equality instead of JSON queries.
type document struct {
	ID        string         `gorm:"primaryKey;size:36"`
	ParentID  *string        `gorm:"column:parent_id;size:36"`
	Doc       map[string]any `gorm:"serializer:json;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// gormStore implements Store using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed document store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// Migrate creates one table per collection plus the parent-reference index.
func Migrate(db *gorm.DB) error {
	for _, c := range All() {
		if err := db.Table(c.name).AutoMigrate(&document{}); err != nil {
			return fmt.Errorf("migrate %s: %w", c.name, err)
		}
		ddl := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_parent_id ON %s (parent_id)", c.name, c.name)
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("index %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *gormStore) Insert(ctx context.Context, c Collection, doc map[string]any) (string, error) {
	rec := document{
		ID:       uuid.NewString(),
		Doc:      cloneDoc(doc),
		ParentID: liftParent(c, doc),
	}
	if err := s.db.WithContext(ctx).Table(c.name).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return rec.ID, nil
}

func (s *gormStore) FetchAll(ctx context.Context, c Collection) ([]map[string]any, error) {
	var recs []document
	if err := s.db.WithContext(ctx).Table(c.name).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("fetch all from %s: %w", c.name, err)
	}
	return renderAll(recs), nil
}

func (s *gormStore) FetchByID(ctx context.Context, c Collection, id string) (map[string]any, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var rec document
	err := s.db.WithContext(ctx).Table(c.name).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", c.name, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", c.name, id, err)
	}
	return render(rec), nil
}

func (s *gormStore) FetchByParent(ctx context.Context, c Collection, parentID string) ([]map[string]any, error) {
	if c.parentKey == "" {
		return nil, fmt.Errorf("collection %s has no parent reference", c.name)
	}
	var recs []document
	if err := s.db.WithContext(ctx).Table(c.name).Where("parent_id = ?", parentID).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("fetch %s by %s: %w", c.name, c.parentKey, err)
	}
	return renderAll(recs), nil
}

func (s *gormStore) UpdateByID(ctx context.Context, c Collection, id string, fields map[string]any) (UpdateResult, error) {
	if err := checkID(id); err != nil {
		return UpdateResult{}, err
	}
	var res UpdateResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec document
		err := tx.Table(c.name).Where("id = ?", id).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not surfaced as an error; the zero counts tell the caller.
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch %s/%s for update: %w", c.name, id, err)
		}

		if rec.Doc == nil {
			rec.Doc = map[string]any{}
		}
		for k, v := range fields {
			if k == "_id" {
				continue
			}
			rec.Doc[k] = v
		}
		if c.parentKey != "" {
			if _, touched := fields[c.parentKey]; touched {
				rec.ParentID = liftParent(c, rec.Doc)
			}
		}

		save := tx.Table(c.name).Save(&rec)
		if save.Error != nil {
			return fmt.Errorf("update %s/%s: %w", c.name, id, save.Error)
		}
		res = UpdateResult{Matched: 1, Modified: save.RowsAffected}
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return res, nil
}

func (s *gormStore) DeleteByID(ctx context.Context, c Collection, id string) (int64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Table(c.name).Where("id = ?", id).Delete(&document{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete %s/%s: %w", c.name, id, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// checkID rejects identifiers that are not well-formed UUIDs before any
// query is issued.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// liftParent copies the parent-reference value into the indexed column.
// Only string values are lifted; a parent id stored under any other
// representation never matches a parent lookup.
func liftParent(c Collection, doc map[string]any) *string {
	if c.parentKey == "" {
		return nil
	}
	if v, ok := doc[c.parentKey].(string); ok {
		return &v
	}
	return nil
}

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

// render returns the stored fields with the generated id merged in.
func render(rec document) map[string]any {
	out := make(map[string]any, len(rec.Doc)+1)
	for k, v := range rec.Doc {
		out[k] = v
	}
	out["_id"] = rec.ID
	return out
}

func renderAll(recs []document) []map[string]any {
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, render(rec))
	}
	return out
}

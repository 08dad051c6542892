package document

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
)

// Store reads and writes the aggregate document as a whole. There are
// no partial updates; the last writer wins.
type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

const documentRowID = 1

type documentRow struct {
	ID        uint   `gorm:"primaryKey"`
	Data      string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

// GormStore persists the document as a single JSON row.
type GormStore struct {
	conn *gorm.DB
}

// GormStoreParams carries the inputs required to build a GormStore.
type GormStoreParams struct {
	Conn        *gorm.DB
	AutoMigrate bool
}

// NewGormStore builds the store, optionally migrating its table.
func NewGormStore(params GormStoreParams) (*GormStore, error) {
	if params.Conn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database connection is required")
	}
	if params.AutoMigrate {
		if err := params.Conn.AutoMigrate(&documentRow{}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "migrating documents table")
		}
	}
	return &GormStore{conn: params.Conn}, nil
}

// Load reads the aggregate document. A missing row yields an empty,
// defaulted document rather than an error.
func (s *GormStore) Load(ctx context.Context) (Document, error) {
	var row documentRow
	err := s.conn.WithContext(ctx).First(&row, documentRowID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			var doc Document
			doc.ApplyDefaults()
			return doc, nil
		}
		return Document{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading document")
	}

	var doc Document
	if err := json.Unmarshal([]byte(row.Data), &doc); err != nil {
		return Document{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding stored document")
	}
	doc.ApplyDefaults()
	return doc, nil
}

// Save writes the whole document back, overwriting any prior state.
func (s *GormStore) Save(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding document")
	}

	row := documentRow{ID: documentRowID, Data: string(data), UpdatedAt: time.Now().UTC()}
	err = s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving document")
	}
	return nil
}

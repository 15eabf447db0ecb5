package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-cart-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists cart snapshots in PostgreSQL using GORM-mapped columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB
// lifecycle and is expected to run migrations.Run beforehand.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CartRecord is the cart row shape, exported for the shared migrations runner.
type CartRecord struct {
	ID            string         `gorm:"primaryKey;column:id;size:64"`
	Lines         []lineRecord   `gorm:"column:lines;serializer:json"`
	LineIDs       pq.StringArray `gorm:"column:line_ids;type:text[]"`
	TotalQuantity int            `gorm:"column:total_quantity"`
	Changed       bool           `gorm:"column:changed;index"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (CartRecord) TableName() string { return "carts" }

type lineRecord struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

func newCartRecord(c *domain.Cart) CartRecord {
	rec := CartRecord{
		ID:            c.ID,
		TotalQuantity: c.TotalQuantity,
		Changed:       c.Changed,
		Lines:         make([]lineRecord, 0, len(c.Lines)),
		LineIDs:       make(pq.StringArray, 0, len(c.Lines)),
	}
	for _, line := range c.Lines {
		rec.Lines = append(rec.Lines, lineRecord{
			ID:         line.ID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			TotalPrice: line.TotalPrice,
		})
		rec.LineIDs = append(rec.LineIDs, line.ID)
	}
	return rec
}

func (rec CartRecord) toProjection() *carttypes.CartProjection {
	cart := &domain.Cart{
		ID:            rec.ID,
		TotalQuantity: rec.TotalQuantity,
		Changed:       rec.Changed,
		Lines:         make([]domain.Line, 0, len(rec.Lines)),
	}
	for _, line := range rec.Lines {
		cart.Lines = append(cart.Lines, domain.Line{
			ID:         line.ID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			TotalPrice: line.TotalPrice,
		})
	}
	return &carttypes.CartProjection{
		Cart:     cart,
		Metadata: projection.Metadata{CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt},
	}
}

// Save inserts or updates a cart snapshot.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) (*carttypes.CartProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if cart == nil || cart.ID == "" {
		return nil, domain.ErrEmptyCartID
	}
	record := newCartRecord(cart)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"lines":          record.Lines,
				"line_ids":       record.LineIDs,
				"total_quantity": record.TotalQuantity,
				"changed":        record.Changed,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, cart.ID)
}

// GetByID loads one cart snapshot.
func (r *Repository) GetByID(ctx context.Context, id string) (*carttypes.CartProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record CartRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// ClearChanged resets the dirty flag with a single UPDATE. The cart lines
// are left alone so mutations committed while a push ran are preserved.
func (r *Repository) ClearChanged(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&CartRecord{}).
		Where("id = ?", id).
		Update("changed", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all cart snapshots ordered by id.
func (r *Repository) List(ctx context.Context) ([]*carttypes.CartProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []CartRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]*carttypes.CartProjection, 0, len(records))
	for _, record := range records {
		result = append(result, record.toProjection())
	}
	return result, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}

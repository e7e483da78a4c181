package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

type productModel struct {
	ID          int64          `gorm:"primaryKey"`
	Name        string         `gorm:"size:255"`
	Description string         `gorm:"type:text"`
	Category    string         `gorm:"size:64"`
	ImageURL    string         `gorm:"column:image_url;size:512"`
	Variants    []variantModel `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productModel) TableName() string { return "products" }

type variantModel struct {
	ID        int64           `gorm:"primaryKey"`
	ProductID int64           `gorm:"index"`
	Color     string          `gorm:"size:32"`
	Size      string          `gorm:"size:16"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2)"`
	Stock     int
}

func (variantModel) TableName() string { return "product_variants" }

// GormCatalog serves products and variants through gorm on the shared pool.
type GormCatalog struct {
	db *gorm.DB
}

// NewGormCatalog wraps an open *sql.DB. The server version probe is skipped
// so the pool is not touched until the first query.
func NewGormCatalog(sqlDB *sql.DB) (*GormCatalog, error) {
	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &GormCatalog{db: gdb}, nil
}

func orderVariants(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (c *GormCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var models []productModel
	err := c.db.WithContext(ctx).Preload("Variants", orderVariants).Order("id").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]domain.Product, 0, len(models))
	for _, m := range models {
		products = append(products, m.toDomain())
	}
	return products, nil
}

func (c *GormCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m, err := c.loadProduct(c.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	p := m.toDomain()
	return &p, nil
}

func (c *GormCatalog) loadProduct(db *gorm.DB, id int64) (productModel, error) {
	var m productModel
	err := db.Preload("Variants", orderVariants).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return productModel{}, fmt.Errorf("product %d: %w", id, port.ErrNotFound)
	}
	if err != nil {
		return productModel{}, fmt.Errorf("get product: %w", err)
	}
	return m, nil
}

// CreateProduct inserts the product together with its variants.
func (c *GormCatalog) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	m := productFromDomain(p)
	m.ID = 0
	for i := range m.Variants {
		m.Variants[i].ID = 0
	}

	if err := c.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", classify(err))
	}
	return m.toDomain(), nil
}

// UpdateProduct rewrites the product fields and reconciles its variants:
// variants with an id are updated, new ones inserted and omitted ones
// removed. Removing a variant that was already ordered fails.
func (c *GormCatalog) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var out productModel
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := c.loadProduct(tx, p.ID); err != nil {
			return err
		}

		err := tx.Model(&productModel{ID: p.ID}).Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"category":    p.Category,
			"image_url":   p.ImageURL,
			"updated_at":  time.Now(),
		}).Error
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		keep := make([]int64, 0, len(p.Variants))
		for _, v := range p.Variants {
			vm := variantFromDomain(v)
			vm.ProductID = p.ID
			if vm.ID > 0 {
				res := tx.Model(&variantModel{}).
					Where("id = ? AND product_id = ?", vm.ID, p.ID).
					Updates(map[string]any{"color": vm.Color, "size": vm.Size, "price": vm.Price, "stock": vm.Stock})
				if res.Error != nil {
					return fmt.Errorf("update variant: %w", res.Error)
				}
			} else if err := tx.Create(&vm).Error; err != nil {
				return fmt.Errorf("create variant: %w", classify(err))
			}
			keep = append(keep, vm.ID)
		}

		stale := tx.Where("product_id = ?", p.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&variantModel{}).Error; err != nil {
			return fmt.Errorf("remove variants: %w", classify(err))
		}

		out, err = c.loadProduct(tx, p.ID)
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}
	return out.toDomain(), nil
}

func (c *GormCatalog) DeleteProduct(ctx context.Context, id int64) error {
	res := c.db.WithContext(ctx).Delete(&productModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, port.ErrNotFound)
	}
	return nil
}

func (c *GormCatalog) VariantPrice(ctx context.Context, productID, variantID int64) (decimal.Decimal, error) {
	var v variantModel
	err := c.db.WithContext(ctx).
		Select("price").
		Where("id = ? AND product_id = ?", variantID, productID).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, fmt.Errorf("variant %d of product %d: %w", variantID, productID, port.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("variant price: %w", err)
	}
	return v.Price, nil
}

func (m productModel) toDomain() domain.Product {
	p := domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		Variants:    make([]domain.Variant, 0, len(m.Variants)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, v := range m.Variants {
		p.Variants = append(p.Variants, domain.Variant{
			ID:         v.ID,
			ProductID:  v.ProductID,
			Color:      v.Color,
			Size:       v.Size,
			Price:      v.Price,
			Stock:      v.Stock,
			FinalPrice: v.Price,
		})
	}
	return p
}

func productFromDomain(p domain.Product) productModel {
	m := productModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
	for _, v := range p.Variants {
		m.Variants = append(m.Variants, variantFromDomain(v))
	}
	return m
}

func variantFromDomain(v domain.Variant) variantModel {
	return variantModel{
		ID:        v.ID,
		ProductID: v.ProductID,
		Color:     v.Color,
		Size:      v.Size,
		Price:     v.Price,
		Stock:     v.Stock,
	}
}

package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"storefront/models"
)

type SortKey string

const (
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

var sortColumns = map[SortKey]string{
	SortNameAsc:   "name ASC",
	SortNameDesc:  "name DESC",
	SortPriceAsc:  "price ASC",
	SortPriceDesc: "price DESC",
}

// Unknown or empty sort keys fall back to insertion order.
const insertionOrder = "created_at ASC, id ASC"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int64           `json:"count"`
}

type SearchQuery struct {
	Search   string
	SortBy   SortKey
	Category string
}

type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ListCategories counts products per category.
func (s *ProductStore) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&counts).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "count products by category")
	}
	return counts, nil
}

// ListByCategory returns every product in category. An unknown category matches nothing.
func (s *ProductStore) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order(insertionOrder).
		Find(&products).
		Error
	if err != nil {
		return nil, errors.Wrapf(err, "list products in %q", category)
	}
	return products, nil
}

func (s *ProductStore) ListAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.WithContext(ctx).Order(insertionOrder).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

// SearchAndSort filters by a case-insensitive name substring and an optional exact category.
// Visibility is not considered.
func (s *ProductStore) SearchAndSort(ctx context.Context, q SearchQuery) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if q.Search != "" {
		query = query.Where("search_name LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(q.Search))+"%")
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}

	order, ok := sortColumns[q.SortBy]
	if !ok {
		order = insertionOrder
	}

	products := []models.Product{}
	if err := query.Order(order).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return products, nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "get product %s", id)
	}
	return &product, nil
}

// Create inserts p. Invariant violations surface as models.ErrInvalidProduct before any write.
// p.Show is stored as given; build p with models.NewProduct to get a visible product.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return errors.Wrap(err, "create product")
	}
	return nil
}

package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/store"
)

const imageRefSeparator = ","

type productSummary struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	ImageURLs   []string        `json:"img_urls"`
	Category    models.Category `json:"category"`
	Show        bool            `json:"show"`
}

// productData also carries the comma-joined img_url field older clients read.
type productData struct {
	productSummary
	ImageURL string `json:"img_url"`
}

func toProductSummary(p models.Product) productSummary {
	imageURLs := p.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	return productSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURLs:   imageURLs,
		Category:    p.Category,
		Show:        p.Show,
	}
}

func toProductData(p models.Product) productData {
	return productData{
		productSummary: toProductSummary(p),
		ImageURL:       strings.Join(p.ImageURLs, imageRefSeparator),
	}
}

func toProductDataList(products []models.Product) []productData {
	productsData := make([]productData, len(products))
	for i, product := range products {
		productsData[i] = toProductData(product)
	}
	return productsData
}

func GetCategoriesHandler(c *gin.Context, products *store.ProductStore) {
	categories, err := products.ListCategories(c)
	if err != nil {
		zap.L().Error("list categories", zap.Error(err))
		c.String(http.StatusBadRequest, "Error retrieving categories")
		return
	}
	if categories == nil {
		categories = []store.CategoryCount{}
	}

	c.JSON(http.StatusOK, categories)
}

func GetProductsByCategoryHandler(c *gin.Context, products *store.ProductStore) {
	category := c.Param("category")

	list, err := products.ListByCategory(c, category)
	if err != nil {
		zap.L().Error("list products by category", zap.String("category", category), zap.Error(err))
		c.String(http.StatusBadRequest, "Error retrieving product")
		return
	}

	c.JSON(http.StatusOK, toProductDataList(list))
}

func GetProductListHandler(c *gin.Context, products *store.ProductStore) {
	list, err := products.ListAll(c)
	if err != nil {
		zap.L().Error("list products", zap.Error(err))
		c.String(http.StatusBadRequest, "Error retrieving products")
		return
	}

	c.JSON(http.StatusOK, toProductDataList(list))
}

func SearchSortHandler(c *gin.Context, products *store.ProductStore) {
	query := store.SearchQuery{
		Search:   c.Query("search"),
		SortBy:   store.SortKey(c.Query("sort_by")),
		Category: c.Query("category"),
	}

	list, err := products.SearchAndSort(c, query)
	if err != nil {
		zap.L().Error("search products",
			zap.String("search", query.Search),
			zap.String("sort_by", string(query.SortBy)),
			zap.String("category", query.Category),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error searching products",
		})
		return
	}

	summaries := make([]productSummary, len(list))
	for i, product := range list {
		summaries[i] = toProductSummary(product)
	}
	c.JSON(http.StatusOK, summaries)
}

func GetProductDataHandler(c *gin.Context, products *store.ProductStore) {
	productID := c.Param("id")

	product, err := products.GetByID(c, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.String(http.StatusNotFound, "Product with this id not found")
			return
		}
		zap.L().Info("get product", zap.String("id", productID), zap.Error(err))
		c.String(http.StatusBadRequest, "Error retrieving product")
		return
	}

	c.JSON(http.StatusOK, toProductData(*product))
}

// ProductUploadConfig controls where product images land and how many one request may carry.
type ProductUploadConfig struct {
	UploadsDir string
	MaxImages  int
}

// CreateProductHandler stores a product from a multipart form with its images.
func CreateProductHandler(c *gin.Context, products *store.ProductStore, upload ProductUploadConfig) {
	const failed = "Product addition failed. Please check the request data."

	product, files, err := bindNewProduct(c, upload.MaxImages)
	if err != nil {
		zap.L().Info("reject product", zap.Error(err))
		c.String(http.StatusBadRequest, failed)
		return
	}

	imageNames, err := saveImages(c, upload.UploadsDir, files)
	if err != nil {
		zap.L().Error("save product images", zap.Error(err))
		c.String(http.StatusBadRequest, failed)
		return
	}
	product.ImageURLs = imageNames

	if err := products.Create(c, product); err != nil {
		removeImages(upload.UploadsDir, imageNames)
		zap.L().Error("create product", zap.Error(err))
		c.String(http.StatusBadRequest, failed)
		return
	}

	zap.L().Info("product created", zap.String("id", product.ID), zap.Int("images", len(imageNames)))
	c.String(http.StatusOK, "Product added successfully")
}

// bindNewProduct validates the multipart form before anything is written.
func bindNewProduct(c *gin.Context, maxImages int) (*models.Product, []*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse multipart form")
	}

	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))
	if name == "" || description == "" {
		return nil, nil, errors.New("name and description are required")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("price")), 64)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse price")
	}

	category, ok := models.ParseCategory(c.PostForm("category"))
	if !ok {
		return nil, nil, errors.Errorf("unknown category %q", c.PostForm("category"))
	}

	show := true
	if value := c.PostForm("show"); value != "" {
		show, err = strconv.ParseBool(value)
		if err != nil {
			return nil, nil, errors.Wrap(err, "parse show")
		}
	}

	files := form.File["prodimg"]
	if len(files) == 0 {
		return nil, nil, errors.New("at least one image is required")
	}
	if maxImages > 0 && len(files) > maxImages {
		return nil, nil, errors.Errorf("%d images exceed the limit of %d", len(files), maxImages)
	}
	for _, file := range files {
		if !isValidImageExtensions(file) {
			return nil, nil, errors.Errorf("image %q has an unsupported extension", file.Filename)
		}
	}

	product := models.NewProduct(name, description, price, category)
	product.Show = show
	if err := product.Validate(); err != nil {
		return nil, nil, err
	}
	return product, files, nil
}

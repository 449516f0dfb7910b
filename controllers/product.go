package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

const placeholderImage = "https://placehold.net/400x400.png"

// ProductController handles product-related requests
type ProductController struct {
	Collection *mongo.Collection
}

// NewProductController creates a new ProductController
func NewProductController(client *mongo.Client, dbName string) *ProductController {
	return &ProductController{
		Collection: client.Database(dbName).Collection("products"),
	}
}

// productRequest is the admin create/update payload.
type productRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Stock         int      `json:"stock"`
	Category      string   `json:"category"`
	Brand         string   `json:"brand"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"isActive"`
	IsFeatured    bool     `json:"isFeatured"`
	SKU           string   `json:"sku"`
}

func (req *productRequest) validate() error {
	if req.Name == "" {
		return utils.ValidationError("Name is required")
	}
	if req.Description == "" {
		return utils.ValidationError("Description is required")
	}
	if req.Price == nil || *req.Price < 0 {
		return utils.ValidationError("Price must be a positive number")
	}
	if req.Stock < 0 {
		return utils.ValidationError("Stock must not be negative")
	}
	if req.Category == "" {
		return utils.ValidationError("Category is required")
	}
	if req.Brand == "" {
		return utils.ValidationError("Brand is required")
	}
	if req.SKU == "" {
		return utils.ValidationError("SKU is required")
	}
	return nil
}

// sanitizeImages keeps only http(s) and /uploads/ URLs, falling back to a
// placeholder when none survive.
func sanitizeImages(images []string) []string {
	valid := []string{}
	for _, url := range images {
		if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "/uploads/") {
			valid = append(valid, url)
		}
	}
	if len(valid) == 0 {
		valid = []string{placeholderImage}
	}
	return valid
}

// ListProducts retrieves active products with filtering, sorting and pagination
func (pc *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	q := r.URL.Query()

	query := bson.M{"isActive": true}
	if category := q.Get("category"); category != "" {
		if id, err := primitive.ObjectIDFromHex(category); err == nil {
			query["category"] = id
		}
	}
	if brand := q.Get("brand"); brand != "" {
		if id, err := primitive.ObjectIDFromHex(brand); err == nil {
			query["brand"] = id
		}
	}
	if search := q.Get("search"); search != "" {
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	sortField := q.Get("sort")
	if sortField == "" {
		sortField = "createdAt"
	}
	sortOrder := -1
	if q.Get("order") == "asc" {
		sortOrder = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	total, err := pc.Collection.CountDocuments(ctx, query)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := pc.Collection.Find(ctx, query, opts)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"products":    products,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, product)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondError(w, err)
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.Category)
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	brandID, err := primitive.ObjectIDFromHex(req.Brand)
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
		Category:      categoryID,
		Brand:         brandID,
		Images:        sanitizeImages(req.Images),
		IsActive:      isActive,
		IsFeatured:    req.IsFeatured,
		SKU:           req.SKU,
		CreatedAt:     time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.InsertOne(ctx, product)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles updating a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondError(w, err)
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.Category)
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	brandID, err := primitive.ObjectIDFromHex(req.Brand)
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	update := bson.M{
		"name":          req.Name,
		"description":   req.Description,
		"price":         *req.Price,
		"originalPrice": req.OriginalPrice,
		"stock":         req.Stock,
		"category":      categoryID,
		"brand":         brandID,
		"images":        sanitizeImages(req.Images),
		"isActive":      isActive,
		"isFeatured":    req.IsFeatured,
		"sku":           req.SKU,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "Product removed")
}

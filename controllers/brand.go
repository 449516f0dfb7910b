package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

// BrandController handles brand-related requests
type BrandController struct {
	Collection *mongo.Collection
}

// NewBrandController creates a new BrandController
func NewBrandController(client *mongo.Client, dbName string) *BrandController {
	return &BrandController{
		Collection: client.Database(dbName).Collection("brands"),
	}
}

// ListBrands returns all active brands
func (bc *BrandController) ListBrands(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := bc.Collection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	brands := []models.Brand{}
	if err := cursor.All(ctx, &brands); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, brands)
}

// CreateBrand adds a brand (Admin only)
func (bc *BrandController) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var brand models.Brand
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if brand.Name == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "Name is required")
		return
	}
	brand.ID = primitive.NilObjectID
	brand.IsActive = true

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := bc.Collection.InsertOne(ctx, brand)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	brand.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, brand)
}

// UpdateBrand updates a brand (Admin only)
func (bc *BrandController) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Brand not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Logo        *string `json:"logo"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Logo != nil {
		update["logo"] = *req.Logo
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}
	if len(update) == 0 {
		utils.RespondMessage(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var brand models.Brand
	err = bc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&brand)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Brand not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, brand)
}

// DeleteBrand removes a brand (Admin only)
func (bc *BrandController) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Brand not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := bc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondMessage(w, http.StatusNotFound, "Brand not found")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "Brand removed")
}

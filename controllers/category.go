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

// CategoryController handles category-related requests
type CategoryController struct {
	Collection *mongo.Collection
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(client *mongo.Client, dbName string) *CategoryController {
	return &CategoryController{
		Collection: client.Database(dbName).Collection("categories"),
	}
}

// ListCategories returns all active categories
func (cc *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, categories)
}

// CreateCategory adds a category (Admin only)
func (cc *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if category.Name == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "Name is required")
		return
	}
	category.ID = primitive.NilObjectID
	category.IsActive = true

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.InsertOne(ctx, category)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	category.ID = result.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, category)
}

// UpdateCategory updates a category (Admin only)
func (cc *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Category not found")
		return
	}

	var req struct {
		Name        *string             `json:"name"`
		Description *string             `json:"description"`
		Parent      *primitive.ObjectID `json:"parent"`
		IsActive    *bool               `json:"isActive"`
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
	if req.Parent != nil {
		update["parent"] = *req.Parent
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

	var category models.Category
	err = cc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&category)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, category)
}

// DeleteCategory removes a category (Admin only)
func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "Category not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondMessage(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "Category removed")
}

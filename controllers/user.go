package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/gorilla/mux"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/utils"
)

// UserController handles registration, login and user management
type UserController struct {
	Collection *mongo.Collection
}

// NewUserController creates a new UserController
func NewUserController(client *mongo.Client, dbName string) *UserController {
	return &UserController{
		Collection: client.Database(dbName).Collection("users"),
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		utils.RespondMessage(w, http.StatusBadRequest, "Name, email and a password of at least 6 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if count > 0 {
		utils.RespondMessage(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	result, err := uc.Collection.InsertOne(ctx, user)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	user.Password = ""
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(creds.Email))}).Decode(&user)
	if err != nil {
		utils.RespondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.RespondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	user.Password = ""
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMe returns the authenticated user's profile
func (uc *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	_, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user.Password = ""
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateMe updates the authenticated user's own profile
func (uc *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	_, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req struct {
		Name            *string         `json:"name"`
		Email           *string         `json:"email"`
		ProfilePhoto    *string         `json:"profilePhoto"`
		ShippingAddress *models.Address `json:"shippingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Email != nil {
		update["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.ProfilePhoto != nil {
		update["profilePhoto"] = *req.ProfilePhoto
	}
	if req.ShippingAddress != nil {
		update["shippingAddress"] = *req.ShippingAddress
	}
	if len(update) == 0 {
		utils.RespondMessage(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if email, ok := update["email"]; ok {
		count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": userID}})
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if count > 0 {
			utils.RespondMessage(w, http.StatusBadRequest, "Email already exists")
			return
		}
	}

	var user models.User
	err = uc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user.Password = ""
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateAddress updates the authenticated user's default shipping address
func (uc *UserController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	_, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req struct {
		ShippingAddress *models.Address `json:"shippingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShippingAddress == nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Shipping address is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"shippingAddress": *req.ShippingAddress}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user.Password = ""
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateProfilePhoto updates the authenticated user's profile photo
func (uc *UserController) UpdateProfilePhoto(w http.ResponseWriter, r *http.Request) {
	_, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req struct {
		ProfilePhoto string `json:"profilePhoto"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProfilePhoto == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "Profile photo URL is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"profilePhoto": req.ProfilePhoto}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user.Password = ""
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdatePassword changes the authenticated user's password
func (uc *UserController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	_, userID, err := currentUser(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.OldPassword == "" || len(req.NewPassword) < 6 {
		utils.RespondMessage(w, http.StatusBadRequest, "Old and new password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Old password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	_, err = uc.Collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": string(hashed)}})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondMessage(w, http.StatusOK, "Password updated successfully")
}

// ListUsers returns one page of users with optional name/email search (admin only)
func (uc *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	query := bson.M{}
	if search := r.URL.Query().Get("search"); search != "" {
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	total, err := uc.Collection.CountDocuments(ctx, query)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := uc.Collection.Find(ctx, query, opts)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users":       users,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// GetUserByID returns a single user (admin only)
func (uc *UserController) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"password": 0}),
	).Decode(&user)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateUserByID updates any user, including the role field (admin only)
func (uc *UserController) UpdateUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	var req struct {
		Name            *string         `json:"name"`
		Email           *string         `json:"email"`
		Role            *string         `json:"role"`
		ProfilePhoto    *string         `json:"profilePhoto"`
		ShippingAddress *models.Address `json:"shippingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Email != nil {
		update["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			utils.RespondMessage(w, http.StatusBadRequest, "Invalid role")
			return
		}
		update["role"] = *req.Role
	}
	if req.ProfilePhoto != nil {
		update["profilePhoto"] = *req.ProfilePhoto
	}
	if req.ShippingAddress != nil {
		update["shippingAddress"] = *req.ShippingAddress
	}
	if len(update) == 0 {
		utils.RespondMessage(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user.Password = ""
	utils.RespondJSON(w, http.StatusOK, user)
}

// DeleteUserByID removes a user (admin only)
func (uc *UserController) DeleteUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := uc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "User removed")
}

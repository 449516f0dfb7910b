// Package controllers is the HTTP boundary of the API.
package controllers

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshptk02/storefront-api/middleware"
	"github.com/harshptk02/storefront-api/utils"
)

// currentUser extracts the authenticated caller from the request context.
func currentUser(r *http.Request) (*utils.Claims, primitive.ObjectID, error) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		return nil, primitive.NilObjectID, utils.ForbiddenError("Not authorized")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, primitive.NilObjectID, utils.ForbiddenError("Not authorized")
	}
	return claims, userID, nil
}

// pagination reads page/limit query params with the defaults the API uses
// everywhere (page 1, 10 per page).
func pagination(r *http.Request) (page, limit int64) {
	page, limit = 1, 10
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

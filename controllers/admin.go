package controllers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshptk02/storefront-api/models"
	"github.com/harshptk02/storefront-api/repository"
	"github.com/harshptk02/storefront-api/utils"
)

// AdminController serves the dashboard and reporting endpoints
type AdminController struct {
	Users     *mongo.Collection
	Products  *mongo.Collection
	OrderColl *mongo.Collection
	Orders    *repository.OrderRepo
}

// NewAdminController creates a new AdminController
func NewAdminController(client *mongo.Client, dbName string, orders *repository.OrderRepo) *AdminController {
	db := client.Database(dbName)
	return &AdminController{
		Users:     db.Collection("users"),
		Products:  db.Collection("products"),
		OrderColl: db.Collection("orders"),
		Orders:    orders,
	}
}

// Dashboard returns headline counts, total revenue, the five most recent
// orders and the five lowest-stock active products
func (ac *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	totalUsers, err := ac.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	totalProducts, err := ac.Products.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	totalOrders, err := ac.OrderColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	cursor, err := ac.OrderColl.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var revenue []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &revenue); err != nil {
		utils.RespondError(w, err)
		return
	}
	totalRevenue := 0.0
	if len(revenue) > 0 {
		totalRevenue = revenue[0].Total
	}

	recentOrders, _, err := ac.Orders.List(ctx, bson.M{}, 1, 5)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	lowStockCursor, err := ac.Products.Find(ctx,
		bson.M{"stock": bson.M{"$lt": 5}, "isActive": true},
		options.Find().SetLimit(5),
	)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	lowStockProducts := []models.Product{}
	if err := lowStockCursor.All(ctx, &lowStockProducts); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"totalUsers":       totalUsers,
		"totalProducts":    totalProducts,
		"totalOrders":      totalOrders,
		"totalRevenue":     totalRevenue,
		"recentOrders":     recentOrders,
		"lowStockProducts": lowStockProducts,
	})
}

type monthStat struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalRevenue float64 `json:"totalRevenue"`
	OrderCount   int64   `json:"orderCount"`
}

// StatsOverview returns revenue and order counts per month for the last 12
// months, zero-filled for months with no orders
func (ac *AdminController) StatsOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	now := time.Now().UTC()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	cursor, err := ac.OrderColl.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": windowStart, "$lte": now},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"totalRevenue": bson.M{"$sum": "$total"},
			"orderCount":   bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var grouped []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		TotalRevenue float64 `bson:"totalRevenue"`
		OrderCount   int64   `bson:"orderCount"`
	}
	if err := cursor.All(ctx, &grouped); err != nil {
		utils.RespondError(w, err)
		return
	}

	stats := make([]monthStat, 0, 12)
	for i := 11; i >= 0; i-- {
		d := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		stat := monthStat{Year: d.Year(), Month: int(d.Month())}
		for _, g := range grouped {
			if g.ID.Year == stat.Year && g.ID.Month == stat.Month {
				stat.TotalRevenue = g.TotalRevenue
				stat.OrderCount = g.OrderCount
				break
			}
		}
		stats = append(stats, stat)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

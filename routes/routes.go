// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/harshptk02/storefront-api/controllers"
	"github.com/harshptk02/storefront-api/middleware"
)

// Controllers bundles everything the route table needs.
type Controllers struct {
	Users      *controllers.UserController
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Brands     *controllers.BrandController
	Cart       *controllers.CartController
	Wishlist   *controllers.WishlistController
	Orders     *controllers.OrderController
	Admin      *controllers.AdminController
	Upload     *controllers.UploadController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, uploadDir string) {
	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", c.Users.Register).Methods("POST")
	api.HandleFunc("/auth/login", c.Users.Login).Methods("POST")
	api.HandleFunc("/products", c.Products.ListProducts).Methods("GET")
	api.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")
	api.HandleFunc("/categories", c.Categories.ListCategories).Methods("GET")
	api.HandleFunc("/brands", c.Brands.ListBrands).Methods("GET")

	// Authenticated routes
	auth := api.NewRoute().Subrouter()
	auth.Use(middleware.AuthMiddleware)
	auth.HandleFunc("/auth/me", c.Users.GetMe).Methods("GET")
	auth.HandleFunc("/users/me", c.Users.GetMe).Methods("GET")
	auth.HandleFunc("/users/me", c.Users.UpdateMe).Methods("PUT")
	auth.HandleFunc("/users/password", c.Users.UpdatePassword).Methods("PUT")
	auth.HandleFunc("/users/address", c.Users.UpdateAddress).Methods("PUT")
	auth.HandleFunc("/users/profile-photo", c.Users.UpdateProfilePhoto).Methods("PUT")

	auth.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	auth.HandleFunc("/cart/add", c.Cart.AddToCart).Methods("POST")
	auth.HandleFunc("/cart/update", c.Cart.UpdateCart).Methods("PUT")
	auth.HandleFunc("/cart/remove/{productId}", c.Cart.RemoveFromCart).Methods("DELETE")
	auth.HandleFunc("/cart/clear", c.Cart.ClearCart).Methods("DELETE")

	auth.HandleFunc("/wishlist", c.Wishlist.GetWishlist).Methods("GET")
	auth.HandleFunc("/wishlist/add", c.Wishlist.AddToWishlist).Methods("POST")
	auth.HandleFunc("/wishlist/remove/{productId}", c.Wishlist.RemoveFromWishlist).Methods("DELETE")
	auth.HandleFunc("/wishlist/clear", c.Wishlist.ClearWishlist).Methods("DELETE")

	auth.HandleFunc("/orders", c.Orders.ListOrders).Methods("GET")
	auth.HandleFunc("/orders", c.Orders.CreateOrder).Methods("POST")
	auth.HandleFunc("/orders/{id}", c.Orders.GetOrder).Methods("GET")

	// Admin routes
	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/categories", c.Categories.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", c.Categories.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id}", c.Categories.DeleteCategory).Methods("DELETE")
	admin.HandleFunc("/brands", c.Brands.CreateBrand).Methods("POST")
	admin.HandleFunc("/brands/{id}", c.Brands.UpdateBrand).Methods("PUT")
	admin.HandleFunc("/brands/{id}", c.Brands.DeleteBrand).Methods("DELETE")
	admin.HandleFunc("/orders/{id}/status", c.Orders.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/users", c.Users.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", c.Users.GetUserByID).Methods("GET")
	admin.HandleFunc("/users/{id}", c.Users.UpdateUserByID).Methods("PUT")
	admin.HandleFunc("/users/{id}", c.Users.DeleteUserByID).Methods("DELETE")
	admin.HandleFunc("/admin/dashboard", c.Admin.Dashboard).Methods("GET")
	admin.HandleFunc("/admin/stats/overview", c.Admin.StatsOverview).Methods("GET")
	admin.HandleFunc("/upload", c.Upload.Upload).Methods("POST")

	// Uploaded images
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))),
	)
}

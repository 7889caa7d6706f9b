package http

import (
	"net/http"
	"strconv"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	productsMaxAge   = 300
	categoriesMaxAge = 3600
)

type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Products   *services.ProductService
	Categories *services.CategoryService
	Cart       *services.CartService
	Checkout   *services.CheckoutService
	Orders     *services.OrderService
	Admin      *services.AdminService
}

type Handler struct {
	svc  Services
	auth *AuthMiddleware
	log  *logger.Logger
}

func NewHandler(svc Services, log *logger.Logger) *Handler {
	return &Handler{
		svc:  svc,
		auth: NewAuthMiddleware(svc.Auth, log),
		log:  log.With("component", "http"),
	}
}

// NewRouter builds the engine with the global middleware chain and all
// routes registered.
func NewRouter(h *Handler, frontendURL string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.log), CORS(frontendURL))
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	requireAuth := h.auth.RequireAuth()
	requireAdmin := h.auth.RequireRole(domain.RoleAdmin)

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/me", requireAuth, h.Me)
	auth.PUT("/me", requireAuth, h.UpdateMe)

	products := api.Group("/products")
	products.GET("", CacheControl(productsMaxAge), h.ListProducts)
	products.GET("/featured", CacheControl(productsMaxAge), h.FeaturedProducts)
	products.GET("/categories", CacheControl(categoriesMaxAge), h.CategoryTree)
	products.GET("/:id", CacheControl(productsMaxAge), h.GetProduct)
	products.POST("/:id/reviews", requireAuth, h.AddReview)

	cart := api.Group("/cart", requireAuth)
	cart.GET("", h.GetCart)
	cart.POST("", h.AddToCart)
	cart.PUT("/:id", h.UpdateCartItem)
	cart.DELETE("/:id", h.RemoveCartItem)
	cart.DELETE("", h.ClearCart)

	orders := api.Group("/orders", requireAuth)
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListMyOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PUT("/:id/status", requireAdmin, h.UpdateOrderStatus)

	admin := api.Group("/admin", requireAuth, requireAdmin)
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/users", h.AdminListUsers)
	admin.PUT("/users/:id", h.AdminUpdateUser)
	admin.DELETE("/users/:id", h.AdminDeleteUser)
	admin.GET("/orders", h.AdminListOrders)
	admin.GET("/orders/:id", h.GetOrder)
	admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
	admin.GET("/products", h.AdminListProducts)
	admin.POST("/products", h.AdminCreateProduct)
	admin.GET("/products/:id", h.AdminGetProduct)
	admin.PUT("/products/:id", h.AdminUpdateProduct)
	admin.DELETE("/products/:id", h.AdminDeleteProduct)
	admin.GET("/categories", h.AdminListCategories)
	admin.GET("/categories/:id", h.AdminGetCategory)
	admin.POST("/categories", h.AdminCreateCategory)
	admin.PUT("/categories/:id", h.AdminUpdateCategory)
	admin.DELETE("/categories/:id", h.AdminDeleteCategory)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageSize)))
	return domain.NewPage(page, limit)
}

// caller returns the identity set by RequireAuth.
func caller(c *gin.Context) domain.Identity {
	id, _ := identity(c)
	return id
}

package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"cafe-backoffice/internal/domain"
	productsvc "cafe-backoffice/internal/service/product"
	"cafe-backoffice/internal/service/report"
	usersvc "cafe-backoffice/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type productService interface {
	List(ctx context.Context, f productsvc.ListFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.Input) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Rename(ctx context.Context, oldName, newName string) (*domain.Category, error)
	Delete(ctx context.Context, name string) error
}

type cartService interface {
	Create(ctx context.Context) (*domain.Cart, error)
	Get(ctx context.Context, id string) (*domain.Cart, error)
	AddItem(ctx context.Context, id, productID string, size domain.Size) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, id, productID string, size domain.Size, delta int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, id, productID string, size domain.Size) (*domain.Cart, error)
	Discard(ctx context.Context, id string) error
	With(ctx context.Context, id string, fn func(c *domain.Cart) error) error
}

type orderService interface {
	Confirm(ctx context.Context, cart *domain.Cart) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
}

type reportService interface {
	Report(ctx context.Context, start, end *time.Time) (*report.SalesReport, error)
	Dashboard(ctx context.Context, start, end *time.Time) (*report.Dashboard, error)
	Location() *time.Location
}

type userService interface {
	Login(ctx context.Context, email, password string) (*usersvc.Session, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	TokenTTLSeconds() int
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in usersvc.CreateInput) (*domain.User, error)
	Update(ctx context.Context, id string, in usersvc.UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// Deps groups the services the router needs.
type Deps struct {
	ProductSvc  productService
	CategorySvc categoryService
	CartSvc     cartService
	OrderSvc    orderService
	ReportSvc   reportService
	UserSvc     userService
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CategorySvc == nil:
		return errors.New("category service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	case d.ReportSvc == nil:
		return errors.New("report service required")
	case d.UserSvc == nil:
		return errors.New("user service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/login", loginHandler(deps.UserSvc))

	api := router.Group("/", authMiddleware(deps.UserSvc))
	api.POST("/auth/logout", logoutHandler(deps.UserSvc))
	api.GET("/me", meHandler)

	api.GET("/products", listProductsHandler(deps.ProductSvc))
	api.GET("/products/categories", productCategoriesHandler(deps.ProductSvc))
	api.GET("/products/:id", getProductHandler(deps.ProductSvc))
	api.POST("/products", createProductHandler(deps.ProductSvc))
	api.PUT("/products/:id", updateProductHandler(deps.ProductSvc))
	api.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc))

	api.GET("/categories", listCategoriesHandler(deps.CategorySvc))
	api.POST("/categories", createCategoryHandler(deps.CategorySvc))
	api.PUT("/categories/:name", renameCategoryHandler(deps.CategorySvc))
	api.DELETE("/categories/:name", deleteCategoryHandler(deps.CategorySvc))

	api.POST("/carts", createCartHandler(deps.CartSvc))
	api.GET("/carts/:id", getCartHandler(deps.CartSvc))
	api.DELETE("/carts/:id", discardCartHandler(deps.CartSvc))
	api.POST("/carts/:id/items", addCartItemHandler(deps.CartSvc))
	api.PATCH("/carts/:id/items", updateCartItemHandler(deps.CartSvc))
	api.DELETE("/carts/:id/items/:productId", removeCartItemHandler(deps.CartSvc))
	api.POST("/carts/:id/checkout", checkoutHandler(deps.CartSvc, deps.OrderSvc))

	api.GET("/orders", listOrdersHandler(deps.OrderSvc))
	api.GET("/orders/:id", getOrderHandler(deps.OrderSvc))

	api.GET("/reports/sales", salesReportHandler(deps.ReportSvc))
	api.GET("/reports/dashboard", dashboardHandler(deps.ReportSvc))

	admin := api.Group("/users", requireRole(domain.RoleAdmin))
	admin.GET("", listUsersHandler(deps.UserSvc))
	admin.POST("", createUserHandler(deps.UserSvc))
	admin.GET("/:id", getUserHandler(deps.UserSvc))
	admin.PUT("/:id", updateUserHandler(deps.UserSvc))
	admin.DELETE("/:id", deleteUserHandler(deps.UserSvc))

	return router, nil
}

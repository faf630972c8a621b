package http

import (
	"github.com/gin-gonic/gin"

	"github.com/iyhunko/platforma-manager/internal/http/controller"
	"github.com/iyhunko/platforma-manager/internal/http/middleware"
)

// Controllers groups the handlers mounted by InitRouter.
type Controllers struct {
	General  *controller.Controller
	Products *controller.ProductController
	Sync     *controller.SyncController
}

func InitRouter(server *gin.Engine, ctrs Controllers) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery(), middleware.CORS(), middleware.Logger())

	server.GET("/ping", ctrs.General.Ping)
	server.GET("/status", ctrs.General.Status)

	// Product endpoints
	products := server.Group("/products")
	{
		products.POST("", ctrs.Products.CreateProduct)
		products.GET("", ctrs.Products.ListProducts)
		products.POST("/swap", ctrs.Products.Swap)
		products.GET("/:id", ctrs.Products.GetProduct)
		products.PATCH("/:id", ctrs.Products.UpdateProduct)
		products.DELETE("/:id", ctrs.Products.DeleteProduct)
		products.POST("/:id/move-up", ctrs.Products.MoveUp)
		products.POST("/:id/move-down", ctrs.Products.MoveDown)
	}

	server.GET("/site-items", ctrs.Products.SiteItems)
	server.POST("/sync", ctrs.Sync.Sync)
	server.POST("/push", ctrs.Sync.Push)
	server.POST("/export", ctrs.Sync.Export)

	return server
}

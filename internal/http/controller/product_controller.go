package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iyhunko/platforma-manager/internal/export"
	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/repository"
	"github.com/iyhunko/platforma-manager/internal/service"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	catalogService *service.CatalogService
	projector      *export.Projector
}

// NewProductController creates a new ProductController with the given catalog service.
func NewProductController(catalogService *service.CatalogService, projector *export.Projector) *ProductController {
	return &ProductController{
		catalogService: catalogService,
		projector:      projector,
	}
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Title   string   `json:"title" binding:"required"`
	Price   string   `json:"price"`
	Desc    string   `json:"desc"`
	Meta    string   `json:"meta"`
	Section string   `json:"section"`
	Status  string   `json:"status"`
	Link    string   `json:"link"`
	Images  []string `json:"images"`
}

// SwapRequest names the two products to exchange.
type SwapRequest struct {
	A string `json:"a" binding:"required"`
	B string `json:"b" binding:"required"`
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID      string   `json:"id"`
	Section string   `json:"section"`
	Order   int      `json:"order"`
	Title   string   `json:"title"`
	Price   string   `json:"price"`
	Desc    string   `json:"desc"`
	Meta    string   `json:"meta"`
	Status  string   `json:"status"`
	Link    string   `json:"link"`
	Images  []string `json:"images"`
	Updated string   `json:"updated,omitempty"`
}

// MutationResponse wraps the product affected by a command and its summary.
type MutationResponse struct {
	Product *ProductResponse `json:"product,omitempty"`
	Summary service.Summary  `json:"summary"`
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, summary, err := pc.catalogService.Add(c.Request.Context(), service.ProductInput{
		Title:   req.Title,
		Price:   req.Price,
		Desc:    req.Desc,
		Meta:    req.Meta,
		Section: req.Section,
		Status:  req.Status,
		Link:    req.Link,
		Images:  req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := toProductResponse(created)
	c.JSON(http.StatusCreated, MutationResponse{Product: &resp, Summary: summary})
}

// GetProduct handles the HTTP GET request for one product.
func (pc *ProductController) GetProduct(c *gin.Context) {
	p, err := pc.catalogService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// UpdateProduct handles the HTTP PATCH request for editing product fields.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var patch service.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, summary, err := pc.catalogService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := toProductResponse(updated)
	c.JSON(http.StatusOK, MutationResponse{Product: &resp, Summary: summary})
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	summary, err := pc.catalogService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Summary: summary})
}

// MoveUp handles the HTTP POST request for moving a product one position up.
func (pc *ProductController) MoveUp(c *gin.Context) {
	pc.reorder(c, pc.catalogService.MoveUp)
}

// MoveDown handles the HTTP POST request for moving a product one position down.
func (pc *ProductController) MoveDown(c *gin.Context) {
	pc.reorder(c, pc.catalogService.MoveDown)
}

func (pc *ProductController) reorder(c *gin.Context, move func(ctx context.Context, id string) (service.Summary, error)) {
	id := c.Param("id")
	summary, err := move(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := pc.catalogService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := toProductResponse(p)
	c.JSON(http.StatusOK, MutationResponse{Product: &resp, Summary: summary})
}

// Swap handles the HTTP POST request for exchanging two products of one section.
func (pc *ProductController) Swap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := pc.catalogService.Swap(c.Request.Context(), req.A, req.B)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Summary: summary})
}

// ListProductsRequest represents the query parameters for listing products.
type ListProductsRequest struct {
	Section string `form:"section"`
	Limit   int32  `form:"limit"`
	Token   string `form:"token"`
}

// ListProductsResponse represents the response body for listing products.
type ListProductsResponse struct {
	Products      []ProductResponse `json:"products"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

// ListProducts handles the HTTP GET request for listing products with pagination.
func (pc *ProductController) ListProducts(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := repository.NewQuery().WithSection(req.Section)
	if err := query.ApplyPagination(req.Limit, req.Token); err != nil {
		respondError(c, err)
		return
	}

	products, next := pc.catalogService.List(*query)

	productResponses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		productResponses = append(productResponses, toProductResponse(product))
	}

	response := ListProductsResponse{
		Products: productResponses,
	}
	if next != nil {
		response.NextPageToken = next.Encode()
	}

	c.JSON(http.StatusOK, response)
}

// SiteItems handles the HTTP GET request returning the storefront projection grouped by section.
func (pc *ProductController) SiteItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sections": pc.projector.ProjectSections(pc.catalogService.Products()),
	})
}

func toProductResponse(product *model.Product) ProductResponse {
	resp := ProductResponse{
		ID:      product.ID,
		Section: product.Section,
		Order:   product.Order,
		Title:   product.Title,
		Price:   product.Price,
		Desc:    product.Desc,
		Meta:    product.Meta,
		Status:  string(product.Status),
		Link:    product.Link,
		Images:  product.Images,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if !product.Updated.IsZero() {
		resp.Updated = product.Updated.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

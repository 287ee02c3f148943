package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/electrostore/storefront/cart"
	"github.com/electrostore/storefront/entities"
	"github.com/electrostore/storefront/session"
	"github.com/electrostore/storefront/token"
)

type server struct {
	sessions *session.Store
	cart     *cart.Engine
	catalog  entities.CatalogProvider
	tokens   *token.Manager
	logger   *zap.Logger
}

func (s *server) login(c *gin.Context) {
	var creds session.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := s.sessions.Login(c.Request.Context(), creds)
	if !resp.Success {
		c.JSON(http.StatusUnauthorized, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *server) register(c *gin.Context) {
	var reg session.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := s.sessions.Register(c.Request.Context(), reg)
	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *server) logout(c *gin.Context) {
	s.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (s *server) listProducts(c *gin.Context) {
	filter := entities.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
	}

	if v, ok := c.GetQuery("featured"); ok {
		featured := v == "true" || v == "1"
		filter.Featured = &featured
	}

	products, err := s.catalog.Products(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})

		return
	}

	c.JSON(http.StatusOK, products)
}

func (s *server) featuredProducts(c *gin.Context) {
	products, err := s.catalog.Featured(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list featured products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})

		return
	}

	c.JSON(http.StatusOK, products)
}

func (s *server) getProduct(c *gin.Context) {
	product, err := s.catalog.ProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entities.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": entities.ErrProductNotFound.Error()})
			return
		}

		s.logger.Error("product lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})

		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *server) getCart(c *gin.Context) {
	current := s.cart.Current()
	if current == nil {
		c.JSON(http.StatusOK, gin.H{"items": []entities.CartItem{}})
		return
	}

	c.JSON(http.StatusOK, current)
}

func (s *server) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.cart.Summary())
}

type addItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Variant   string `json:"variant"`
}

func (s *server) addItem(c *gin.Context) {
	var input addItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := s.cart.AddItem(c.Request.Context(), input.ProductID, input.Quantity, input.Variant)
	c.JSON(cartStatus(resp), resp)
}

type updateQuantityInput struct {
	Quantity int `json:"quantity"`
}

func (s *server) updateQuantity(c *gin.Context) {
	var input updateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := s.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), input.Quantity)
	c.JSON(cartStatus(resp), resp)
}

func (s *server) removeItem(c *gin.Context) {
	resp := s.cart.RemoveItem(c.Request.Context(), c.Param("id"))
	c.JSON(cartStatus(resp), resp)
}

func (s *server) clearCart(c *gin.Context) {
	resp := s.cart.Clear(c.Request.Context())
	c.JSON(cartStatus(resp), resp)
}

func cartStatus(resp cart.Response) int {
	if resp.Success {
		return http.StatusOK
	}

	switch resp.Message {
	case entities.ErrItemNotFound.Error(), entities.ErrProductNotFound.Error():
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

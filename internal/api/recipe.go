package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/export"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	socialService *service.SocialService
	cartService   *service.CartService
	imageService  *service.ImageService
	validator     middleware.TokenValidator
	rateLimiter   *middleware.RateLimiter
	pageSize      int
	pdfFontPath   string
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	socialService *service.SocialService,
	cartService *service.CartService,
	imageService *service.ImageService,
	validator middleware.TokenValidator,
	rateLimiter *middleware.RateLimiter,
	pageSize int,
	pdfFontPath string,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		socialService: socialService,
		cartService:   cartService,
		imageService:  imageService,
		validator:     validator,
		rateLimiter:   rateLimiter,
		pageSize:      pageSize,
		pdfFontPath:   pdfFontPath,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.validator), h.List)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.validator), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.Get)

		create := []gin.HandlerFunc{middleware.AuthMiddleware(h.validator)}
		if h.rateLimiter != nil {
			create = append(create, h.rateLimiter.RateLimitMiddleware())
		}
		recipes.POST("", append(create, h.Create)...)

		recipes.PUT("/:id", middleware.AuthMiddleware(h.validator), h.Update)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.validator), h.Delete)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.validator), h.Favorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.validator), h.Unfavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.validator), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.validator), h.RemoveFromCart)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	viewerID := viewer(c)
	page, limit := pagination(c, h.pageSize)

	filter := service.RecipeFilter{
		TagSlugs:      c.QueryArray("tags"),
		OnlyFavorited: c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true",
		OnlyInCart:    c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true",
		Page:          page,
		Limit:         limit,
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	details, total, err := h.recipeService.List(c.Request.Context(), viewerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]RecipeResponse, 0, len(details))
	for _, d := range details {
		subscribed, err := h.socialService.IsSubscribed(c.Request.Context(), viewerID, d.Author.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, toRecipeResponse(d, subscribed))
	}

	c.JSON(http.StatusOK, PageResponse{Count: total, Results: results})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	viewerID := viewer(c)
	detail, err := h.recipeService.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.socialService.IsSubscribed(c.Request.Context(), viewerID, detail.Author.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(*detail, subscribed))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.UserID(c)

	input := req.toInput()
	if service.IsDataURL(input.ImageURL) && h.imageService != nil {
		url, err := h.imageService.StoreDataURL(c.Request.Context(), input.ImageURL)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.ImageURL = url
	}

	detail, err := h.recipeService.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRecipeResponse(*detail, false))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.UserID(c)

	input := req.toInput()
	if service.IsDataURL(input.ImageURL) && h.imageService != nil {
		url, err := h.imageService.StoreDataURL(c.Request.Context(), input.ImageURL)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.ImageURL = url
	}

	detail, err := h.recipeService.Update(c.Request.Context(), id, userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(*detail, false))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.socialService.Favorite(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toShortRecipeResponse(*recipe))
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.socialService.Unfavorite(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.socialService.AddToCart(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toShortRecipeResponse(*recipe))
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.socialService.RemoveFromCart(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	items, err := h.cartService.BuildShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "txt") {
	case "pdf":
		data, err := export.PDF(items, h.pdfFontPath)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="wishlist.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
	case "txt":
		c.Header("Content-Disposition", `attachment; filename="wishlist.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", export.Text(items))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
	}
}

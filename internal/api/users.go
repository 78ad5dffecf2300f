package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	userService   *service.UserService
	socialService *service.SocialService
	validator     middleware.TokenValidator
	pageSize      int
}

func NewUserHandler(userService *service.UserService, socialService *service.SocialService, validator middleware.TokenValidator, pageSize int) *UserHandler {
	return &UserHandler{
		userService:   userService,
		socialService: socialService,
		validator:     validator,
		pageSize:      pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.validator), h.List)
		users.GET("/me", middleware.AuthMiddleware(h.validator), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.validator), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.Get)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.validator), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.validator), h.Unsubscribe)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pagination(c, h.pageSize)
	users, total, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID := viewer(c)
	results := make([]UserResponse, 0, len(users))
	for _, u := range users {
		subscribed, err := h.socialService.IsSubscribed(c.Request.Context(), viewerID, u.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, toUserResponse(u, subscribed))
	}

	c.JSON(http.StatusOK, PageResponse{Count: total, Results: results})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.socialService.IsSubscribed(c.Request.Context(), viewer(c), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user, subscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*user, false))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	userID, _ := middleware.UserID(c)

	detail, err := h.socialService.Follow(c.Request.Context(), userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSubscriptionResponse(*detail))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.socialService.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	page, limit := pagination(c, h.pageSize)
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))

	details, total, err := h.socialService.Subscriptions(c.Request.Context(), userID, recipesLimit, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]SubscriptionResponse, 0, len(details))
	for _, d := range details {
		results = append(results, toSubscriptionResponse(d))
	}

	c.JSON(http.StatusOK, PageResponse{Count: total, Results: results})
}

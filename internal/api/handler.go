package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/prefs"
	"storefront/internal/render"
	"storefront/internal/router"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionCookie = "sid"

// Handler contains the HTTP surface: page rendering, the cart API, theme
// preference and ops endpoints. It is the only layer that touches
// transport, cookies and persistence.
type Handler struct {
	loader   *catalog.Loader
	carts    *cart.Store
	prefs    *prefs.Store
	renderer *render.Renderer
	checkout *checkout.Service
	archive  *store.Store
	decoder  *schema.Decoder
}

// NewHandler creates the HTTP handler. archive may be nil; order history
// then reports unavailable.
func NewHandler(
	loader *catalog.Loader,
	carts *cart.Store,
	prefStore *prefs.Store,
	renderer *render.Renderer,
	checkoutSvc *checkout.Service,
	archive *store.Store,
) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Handler{
		loader:   loader,
		carts:    carts,
		prefs:    prefStore,
		renderer: renderer,
		checkout: checkoutSvc,
		archive:  archive,
		decoder:  decoder,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(prometheusMiddleware())
	r.Use(gin.Logger())
	r.Use(h.sessionMiddleware())

	r.GET("/health", h.healthCheck)
	r.GET("/ready", h.readinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Page regions. Each path is the HTTP form of a location fragment; the
	// fragment router owns dispatch so unmatched fragments fall back home.
	r.GET("/", h.pageFromFragment("#/"))
	r.GET("/category/:slug", func(c *gin.Context) {
		h.renderFragment(c, "#/category/"+c.Param("slug"))
	})
	r.GET("/product/:id", func(c *gin.Context) {
		h.renderFragment(c, "#/product/"+c.Param("id"))
	})
	r.GET("/brands", h.pageFromFragment("#/brands"))
	r.GET("/about", h.pageFromFragment("#/about"))
	r.GET("/contact", h.pageFromFragment("#/contact"))
	r.GET("/admin", h.pageFromFragment("#/admin"))
	r.GET("/render", func(c *gin.Context) {
		h.renderFragment(c, c.Query("fragment"))
	})

	api := r.Group("/api")
	{
		api.GET("/categories", h.categoryChips)
		api.POST("/catalog/reload", h.reloadCatalog)

		api.GET("/cart", h.getCart)
		api.POST("/cart/items", h.addCartItem)
		api.POST("/cart/items/:id/quantity", h.changeCartQuantity)
		api.DELETE("/cart/items/:id", h.removeCartItem)
		api.DELETE("/cart", h.clearCart)
		api.POST("/cart/checkout", h.checkoutCart)
		api.GET("/cart/export.csv", h.exportCartCSV)

		api.GET("/orders", h.listOrders)
		api.GET("/orders/:reference", h.getOrder)

		api.GET("/theme", h.getTheme)
		api.POST("/theme/toggle", h.toggleTheme)
	}
}

// sessionMiddleware assigns a stable session id cookie; the cart and theme
// keys derive from it.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(sessionCookie, sid, 60*60*24*365, "/", "", false, true)
		}
		c.Set(sessionCookie, sid)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCookie)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once a catalog snapshot exists.
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.loader.Snapshot() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) pageFromFragment(fragment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderFragment(c, fragment)
	}
}

// viewState binds the ephemeral query/category/sort selection from the
// request query string.
func (h *Handler) viewState(c *gin.Context) catalog.ViewState {
	var vs catalog.ViewState
	_ = h.decoder.Decode(&vs, c.Request.URL.Query())
	return vs
}

// renderFragment dispatches a location fragment through the router and
// responds with the rendered region markup.
func (h *Handler) renderFragment(c *gin.Context, fragment string) {
	route := router.Resolve(fragment)

	vs := h.viewState(c)
	route.ApplyTo(&vs)

	snap := h.loader.Snapshot()
	lastErr := h.loader.LastError()

	var markup string
	switch route.Page {
	case router.PageProduct:
		if snap == nil {
			if lastErr != nil {
				markup = h.renderer.LoadErrorNotice()
			} else {
				markup = h.renderer.Skeleton()
			}
			break
		}
		img, _ := strconv.Atoi(c.Query("img"))
		markup = h.renderer.ProductPage(snap.Find(route.Params["id"]), img)
	case router.PageCategories:
		markup = h.renderer.CategoriesPage(snap, lastErr)
	case router.PageAbout:
		markup = h.renderer.AboutPage()
	case router.PageContact:
		markup = h.renderer.ContactPage()
	case router.PageAdmin:
		markup = h.renderer.AdminPage(snap, lastErr)
	default:
		markup = h.renderer.Shop(snap, vs, lastErr)
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

// categoryChips returns the category filter strip, marking the selection
// from the query string.
func (h *Handler) categoryChips(c *gin.Context) {
	vs := h.viewState(c)
	markup := h.renderer.CategoryChips(h.loader.Snapshot(), vs.Category)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

// reloadCatalog replaces the catalog snapshot wholesale from the upstream
// JSON. The previous snapshot is kept on failure.
func (h *Handler) reloadCatalog(c *gin.Context) {
	snap, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Could not load products",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":   len(snap.Products),
		"categories": len(snap.Categories),
	})
}

// cartResponse couples every cart reply to the refreshed cart fragments
// (badge count, drawer items, subtotal).
func (h *Handler) cartResponse(c *gin.Context, crt *cart.Cart) {
	c.JSON(http.StatusOK, h.renderer.Cart(crt))
}

// getCart returns the session's cart fragments.
func (h *Handler) getCart(c *gin.Context) {
	crt := h.carts.Load(c.Request.Context(), sessionID(c))
	h.cartResponse(c, crt)
}

type addItemRequest struct {
	ProductID string `json:"id" binding:"required"`
	Quantity  int    `json:"qty"`
}

// addCartItem adds a product to the cart; unknown ids are a silent no-op.
func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	crt, err := h.carts.Add(c.Request.Context(), sessionID(c), h.loader.Snapshot(), req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	h.cartResponse(c, crt)
}

type quantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// changeCartQuantity applies a quantity delta; at or below zero the line is
// removed.
func (h *Handler) changeCartQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	crt, err := h.carts.ChangeQuantity(c.Request.Context(), sessionID(c), c.Param("id"), req.Delta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	h.cartResponse(c, crt)
}

// removeCartItem deletes a line by product id.
func (h *Handler) removeCartItem(c *gin.Context) {
	crt, err := h.carts.Remove(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	h.cartResponse(c, crt)
}

// clearCart empties the cart.
func (h *Handler) clearCart(c *gin.Context) {
	crt, err := h.carts.Clear(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	h.cartResponse(c, crt)
}

// checkoutCart hands the cart off to the checkout flow.
func (h *Handler) checkoutCart(c *gin.Context) {
	sid := sessionID(c)
	crt := h.carts.Load(c.Request.Context(), sid)

	result, err := h.checkout.Checkout(c.Request.Context(), sid, crt, h.loader.Snapshot())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// exportCartCSV downloads the cart lines as order.csv.
func (h *Handler) exportCartCSV(c *gin.Context) {
	crt := h.carts.Load(c.Request.Context(), sessionID(c))

	data, err := h.checkout.CSV(crt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export cart"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="order.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// listOrders returns the session's archived orders, newest first.
func (h *Handler) listOrders(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order history is not available"})
		return
	}

	orders, err := h.archive.GetOrdersBySession(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	if orders == nil {
		orders = []store.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder returns one archived order with its lines. Orders belonging to
// another session read as not found.
func (h *Handler) getOrder(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order history is not available"})
		return
	}

	order, err := h.archive.GetOrderByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	if order.SessionID != sessionID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	lines, err := h.archive.GetOrderLines(c.Request.Context(), order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "lines": lines})
}

// getTheme returns the session's theme preference.
func (h *Handler) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"theme": h.prefs.Theme(c.Request.Context(), sessionID(c)),
	})
}

// toggleTheme flips and persists the theme preference.
func (h *Handler) toggleTheme(c *gin.Context) {
	theme, err := h.prefs.Toggle(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

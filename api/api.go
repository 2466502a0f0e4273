// Package api provides the HTTP surface of the storefront: proxy
// routes in front of the upstream commerce API, checkout session
// routes, and announcement routes. Every response uses the uniform
// {success, data, timestamp} envelope.
package api

import (
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"golang.org/x/time/rate"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/backend"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
	"github.com/chanderbhanswami/vardhman-mills-sub017/store"
)

// Deps carries the collaborators the API handlers need.
type Deps struct {
	Client   *backend.Client
	Sessions *flow.Manager
	Store    store.Store
	Config   checkout.Config
	Logger   *slog.Logger
}

// API wires all Forge-style HTTP handlers together for the storefront.
type API struct {
	client   *backend.Client
	sessions *flow.Manager
	store    store.Store
	cfg      checkout.Config
	logger   *slog.Logger
	router   forge.Router
}

// New creates an API from its dependencies.
func New(deps Deps, router forge.Router) *API {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		client:   deps.Client,
		sessions: deps.Sessions,
		store:    deps.Store,
		cfg:      deps.Config,
		logger:   logger,
		router:   router,
	}
}

// Handler returns the fully assembled http.Handler: all routes plus the
// recover, rate-limit, auth, and cache-header middleware.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	a.RegisterRoutes(a.router)

	limiter := rate.NewLimiter(rate.Limit(a.cfg.RateLimit), a.cfg.RateBurst)

	h := a.router.Handler()
	h = CacheHeaders(a.cfg.CacheDefaultTTL, a.cfg.CacheFlashSaleTTL, h)
	h = Auth(h)
	h = RateLimit(limiter, h)
	return Recover(a.logger, h)
}

// RegisterRoutes registers all storefront API routes into the given
// Forge router with full OpenAPI metadata.
func (a *API) RegisterRoutes(router forge.Router) {
	a.registerCartRoutes(router)
	a.registerOrderRoutes(router)
	a.registerGiftCardRoutes(router)
	a.registerContentRoutes(router)
	a.registerEmailRoutes(router)
	a.registerCheckoutRoutes(router)
	a.registerAnnouncementRoutes(router)
}

// registerCartRoutes registers the cart proxy routes.
func (a *API) registerCartRoutes(router forge.Router) {
	g := router.Group("/v1", forge.WithGroupTags("cart"))

	_ = g.GET("/cart", a.getCart,
		forge.WithSummary("Get cart"),
		forge.WithDescription("Returns the caller's upstream cart."),
		forge.WithOperationID("getCart"),
		forge.WithResponseSchema(http.StatusOK, "Cart", &backend.Cart{}),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/cart/items", a.addCartItem,
		forge.WithSummary("Add cart item"),
		forge.WithDescription("Adds a product to the cart and returns the updated cart."),
		forge.WithOperationID("addCartItem"),
		forge.WithRequestSchema(AddCartItemRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated cart", &backend.Cart{}),
		forge.WithErrorResponses(),
	)

	_ = g.PATCH("/cart/items/:itemId", a.updateCartItem,
		forge.WithSummary("Update cart item"),
		forge.WithDescription("Changes a cart line's quantity."),
		forge.WithOperationID("updateCartItem"),
		forge.WithRequestSchema(UpdateCartItemRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated cart", &backend.Cart{}),
		forge.WithErrorResponses(),
	)

	_ = g.DELETE("/cart/items/:itemId", a.removeCartItem,
		forge.WithSummary("Remove cart item"),
		forge.WithDescription("Removes a line from the cart."),
		forge.WithOperationID("removeCartItem"),
		forge.WithResponseSchema(http.StatusOK, "Updated cart", &backend.Cart{}),
		forge.WithErrorResponses(),
	)
}

// registerOrderRoutes registers the order proxy routes.
func (a *API) registerOrderRoutes(router forge.Router) {
	g := router.Group("/v1", forge.WithGroupTags("orders"))

	_ = g.GET("/orders/:orderId", a.getOrder,
		forge.WithSummary("Get order"),
		forge.WithDescription("Returns an upstream order by ID."),
		forge.WithOperationID("getOrder"),
		forge.WithResponseSchema(http.StatusOK, "Order", &backend.Order{}),
		forge.WithErrorResponses(),
	)
}

// registerGiftCardRoutes registers the gift card proxy routes.
func (a *API) registerGiftCardRoutes(router forge.Router) {
	g := router.Group("/v1", forge.WithGroupTags("giftcards"))

	_ = g.GET("/giftcards/:code", a.getGiftCard,
		forge.WithSummary("Get gift card"),
		forge.WithDescription("Returns a gift card's balance and status."),
		forge.WithOperationID("getGiftCard"),
		forge.WithResponseSchema(http.StatusOK, "Gift card", &backend.GiftCard{}),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/giftcards/redeem", a.redeemGiftCard,
		forge.WithSummary("Redeem gift card"),
		forge.WithDescription("Redeems a gift card and returns its remaining state."),
		forge.WithOperationID("redeemGiftCard"),
		forge.WithRequestSchema(RedeemGiftCardRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Gift card", &backend.GiftCard{}),
		forge.WithErrorResponses(),
	)
}

// registerContentRoutes registers the content and listing proxy routes.
func (a *API) registerContentRoutes(router forge.Router) {
	g := router.Group("/v1", forge.WithGroupTags("content"))

	_ = g.GET("/content/hero", a.getHero,
		forge.WithSummary("Hero content"),
		forge.WithDescription("Returns the homepage hero block."),
		forge.WithOperationID("getHero"),
		forge.WithResponseSchema(http.StatusOK, "Hero content", &backend.HeroContent{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/products/featured", a.featuredProducts,
		forge.WithSummary("Featured products"),
		forge.WithDescription("Returns the featured product listing."),
		forge.WithOperationID("featuredProducts"),
		forge.WithResponseSchema(http.StatusOK, "Products", []backend.Product{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/products/sale", a.saleProducts,
		forge.WithSummary("Sale products"),
		forge.WithDescription("Returns the flash-sale product listing."),
		forge.WithOperationID("saleProducts"),
		forge.WithResponseSchema(http.StatusOK, "Products", []backend.Product{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/home", a.home,
		forge.WithSummary("Home content"),
		forge.WithDescription("Returns hero, featured, and sale content in one response."),
		forge.WithOperationID("homeContent"),
		forge.WithResponseSchema(http.StatusOK, "Home content", &backend.HomeContent{}),
		forge.WithErrorResponses(),
	)
}

// registerEmailRoutes registers the email verification proxy route.
func (a *API) registerEmailRoutes(router forge.Router) {
	g := router.Group("/v1", forge.WithGroupTags("email"))

	_ = g.POST("/email/verify", a.verifyEmail,
		forge.WithSummary("Verify email"),
		forge.WithDescription("Requests verification of an email address."),
		forge.WithOperationID("verifyEmail"),
		forge.WithRequestSchema(VerifyEmailRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Verification result", &backend.EmailVerification{}),
		forge.WithErrorResponses(),
	)
}

// registerCheckoutRoutes registers the checkout session routes.
func (a *API) registerCheckoutRoutes(router forge.Router) {
	g := router.Group("/v1", forge.WithGroupTags("checkout"))

	_ = g.POST("/checkout/sessions", a.createSession,
		forge.WithSummary("Start checkout session"),
		forge.WithDescription("Creates (or resumes) a checkout session."),
		forge.WithOperationID("createSession"),
		forge.WithRequestSchema(CreateSessionRequest{}),
		forge.WithCreatedResponse(SessionState{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/checkout/sessions/:sessionKey", a.getSession,
		forge.WithSummary("Get checkout session"),
		forge.WithDescription("Returns the session's current state and progress."),
		forge.WithOperationID("getSession"),
		forge.WithResponseSchema(http.StatusOK, "Session state", SessionState{}),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/checkout/sessions/:sessionKey/next", a.sessionNext,
		forge.WithSummary("Advance session"),
		forge.WithDescription("Validates the current step and advances on success."),
		forge.WithOperationID("sessionNext"),
		forge.WithResponseSchema(http.StatusOK, "Session state", SessionState{}),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/checkout/sessions/:sessionKey/previous", a.sessionPrevious,
		forge.WithSummary("Step back"),
		forge.WithDescription("Moves the session back one step."),
		forge.WithOperationID("sessionPrevious"),
		forge.WithResponseSchema(http.StatusOK, "Session state", SessionState{}),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/checkout/sessions/:sessionKey/goto", a.sessionGoTo,
		forge.WithSummary("Jump to earlier step"),
		forge.WithDescription("Jumps backward to an already-visited step."),
		forge.WithOperationID("sessionGoTo"),
		forge.WithRequestSchema(GoToStepRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Session state", SessionState{}),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/checkout/sessions/:sessionKey/complete-step", a.sessionCompleteStep,
		forge.WithSummary("Complete current step"),
		forge.WithDescription("Marks the current step complete without navigating."),
		forge.WithOperationID("sessionCompleteStep"),
		forge.WithResponseSchema(http.StatusOK, "Session state", SessionState{}),
		forge.WithErrorResponses(),
	)

	_ = g.PUT("/checkout/sessions/:sessionKey/data", a.sessionSaveData,
		forge.WithSummary("Save step data"),
		forge.WithDescription("Stores an opaque payload for a step."),
		forge.WithOperationID("sessionSaveData"),
		forge.WithRequestSchema(SaveStepDataRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Session state", SessionState{}),
		forge.WithErrorResponses(),
	)
}

// registerAnnouncementRoutes registers the announcement bar routes.
func (a *API) registerAnnouncementRoutes(router forge.Router) {
	g := router.Group("/v1", forge.WithGroupTags("announcements"))

	_ = g.GET("/announcements", a.listAnnouncements,
		forge.WithSummary("List active announcements"),
		forge.WithDescription("Returns active announcements, excluding those the session dismissed."),
		forge.WithOperationID("listAnnouncements"),
		forge.WithErrorResponses(),
	)

	_ = g.POST("/announcements/:announcementId/dismiss", a.dismissAnnouncement,
		forge.WithSummary("Dismiss announcement"),
		forge.WithDescription("Records that the session dismissed a banner."),
		forge.WithOperationID("dismissAnnouncement"),
		forge.WithRequestSchema(DismissRequest{}),
		forge.WithErrorResponses(),
	)
}

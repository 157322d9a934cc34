package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinegram/internal/auth"
	"cinegram/internal/models"
	"cinegram/internal/repository"
	"cinegram/internal/service"
)

// HTTPHandler is the single entry component for external callers. It
// authenticates, validates and dispatches; no business logic lives here.
type HTTPHandler struct {
	users      *service.UserService
	catalog    *service.CatalogService
	progress   *service.ProgressService
	watchlist  *service.WatchlistService
	stream     *service.StreamService
	backupSvc  *service.BackupService
	verifier   *auth.InitDataVerifier
	sessions   *auth.SessionManager
	adminToken string
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(
	users *service.UserService,
	catalog *service.CatalogService,
	progress *service.ProgressService,
	watchlist *service.WatchlistService,
	stream *service.StreamService,
	backupSvc *service.BackupService,
	verifier *auth.InitDataVerifier,
	sessions *auth.SessionManager,
	adminToken string,
) *HTTPHandler {
	return &HTTPHandler{
		users:      users,
		catalog:    catalog,
		progress:   progress,
		watchlist:  watchlist,
		stream:     stream,
		backupSvc:  backupSvc,
		verifier:   verifier,
		sessions:   sessions,
		adminToken: adminToken,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	// Health check must allow unauthenticated ping for probes
	r.GET("/api/health", h.Health)

	r.POST("/api/auth/telegram", h.LoginTelegram)

	api := r.Group("/api")
	api.Use(h.sessionMiddleware)

	// Catalog discovery
	api.GET("/catalog/trending", h.GetTrending)
	api.GET("/catalog/popular", h.GetPopular)
	api.GET("/catalog/search", h.SearchCatalog)
	api.GET("/catalog/items/:id", h.GetItemDetail)
	api.GET("/catalog/items/:id/stream", h.GetItemStream)

	// Watch progress
	api.GET("/progress", h.ListProgress)
	api.PUT("/progress/:id", h.UpsertProgress)

	// Watchlist
	api.GET("/watchlist", h.ListWatchlist)
	api.POST("/watchlist", h.AddToWatchlist)
	api.GET("/watchlist/:id", h.CheckWatchlist)
	api.DELETE("/watchlist/:id", h.RemoveFromWatchlist)

	admin := r.Group("/api/admin")
	admin.Use(h.adminMiddleware)
	admin.GET("/items", h.AdminListItems)
	admin.DELETE("/items/:id", h.AdminDeleteItem)
	admin.GET("/users", h.AdminListUsers)
	admin.POST("/backup", h.AdminBackup)
}

// LoginTelegram verifies Telegram Mini App launch parameters, creates the
// account on first handshake and issues a session token.
// POST /api/auth/telegram
func (h *HTTPHandler) LoginTelegram(c *gin.Context) {
	var req struct {
		InitData string `json:"init_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tgUser, err := h.verifier.Verify(req.InitData)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Login(tgUser.ID, tgUser.FirstName, tgUser.LastName, tgUser.Username, tgUser.PhotoURL)
	if err != nil {
		renderError(c, err)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetTrending returns the weekly trending list, mirrored locally.
// GET /api/catalog/trending?type=movie|tv
func (h *HTTPHandler) GetTrending(c *gin.Context) {
	mediaType := models.MediaType(c.DefaultQuery("type", "movie"))

	items, err := h.catalog.Trending(c.Request.Context(), mediaType)
	if err != nil {
		renderError(c, err)
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetPopular returns the popular list, mirrored locally.
// GET /api/catalog/popular?type=movie|tv
func (h *HTTPHandler) GetPopular(c *gin.Context) {
	mediaType := models.MediaType(c.DefaultQuery("type", "movie"))

	items, err := h.catalog.Popular(c.Request.Context(), mediaType)
	if err != nil {
		renderError(c, err)
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SearchCatalog searches the upstream catalog, mirroring results.
// GET /api/catalog/search?q=...&type=movie|tv
func (h *HTTPHandler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}
	mediaType := models.MediaType(c.DefaultQuery("type", "movie"))

	items, err := h.catalog.Search(c.Request.Context(), mediaType, query)
	if err != nil {
		renderError(c, err)
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItemDetail returns a mirrored item, lazily enriched with runtime,
// full genres and cast.
// GET /api/catalog/items/:id
func (h *HTTPHandler) GetItemDetail(c *gin.Context) {
	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.catalog.GetDetail(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// GetItemStream returns the embed player URL for an item.
// GET /api/catalog/items/:id/stream
func (h *HTTPHandler) GetItemStream(c *gin.Context) {
	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.catalog.GetByID(id)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": h.stream.EmbedURL(item)})
}

// ListProgress returns the caller's bookmarks, newest-touched first.
// GET /api/progress
func (h *HTTPHandler) ListProgress(c *gin.Context) {
	entries, err := h.progress.ListForUser(currentUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	if entries == nil {
		entries = []repository.ProgressWithItem{}
	}

	c.JSON(http.StatusOK, gin.H{"progress": entries})
}

// UpsertProgress writes the caller's playback bookmark for an item.
// PUT /api/progress/:id
func (h *HTTPHandler) UpsertProgress(c *gin.Context) {
	itemID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		PositionSecs float64 `json:"position_secs"`
		DurationSecs float64 `json:"duration_secs"`
		Completed    bool    `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.progress.Upsert(currentUserID(c), itemID, req.PositionSecs, req.DurationSecs, req.Completed)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": record})
}

// ListWatchlist returns the caller's watchlist, most-recently-added first.
// GET /api/watchlist
func (h *HTTPHandler) ListWatchlist(c *gin.Context) {
	entries, err := h.watchlist.ListForUser(currentUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	if entries == nil {
		entries = []repository.EntryWithItem{}
	}

	c.JSON(http.StatusOK, gin.H{"watchlist": entries})
}

// AddToWatchlist saves an item for the caller. Re-adding is a no-op.
// POST /api/watchlist
func (h *HTTPHandler) AddToWatchlist(c *gin.Context) {
	var req struct {
		ItemID int64 `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ItemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	entry, err := h.watchlist.Add(currentUserID(c), req.ItemID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// CheckWatchlist reports membership for one item.
// GET /api/watchlist/:id
func (h *HTTPHandler) CheckWatchlist(c *gin.Context) {
	itemID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	contains, err := h.watchlist.Contains(currentUserID(c), itemID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"in_watchlist": contains})
}

// RemoveFromWatchlist removes an item from the caller's watchlist.
// Removing an absent pair succeeds.
// DELETE /api/watchlist/:id
func (h *HTTPHandler) RemoveFromWatchlist(c *gin.Context) {
	itemID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.watchlist.Remove(currentUserID(c), itemID); err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

// AdminListItems returns every mirrored catalog item.
// GET /api/admin/items
func (h *HTTPHandler) AdminListItems(c *gin.Context) {
	items, err := h.catalog.ListAll()
	if err != nil {
		renderError(c, err)
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AdminDeleteItem removes a catalog item and all progress/watchlist rows
// referencing it, in one transaction.
// DELETE /api/admin/items/:id
func (h *HTTPHandler) AdminDeleteItem(c *gin.Context) {
	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.Delete(id); err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// AdminListUsers returns every registered account.
// GET /api/admin/users
func (h *HTTPHandler) AdminListUsers(c *gin.Context) {
	users, err := h.users.ListAll()
	if err != nil {
		renderError(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdminBackup triggers an immediate database backup.
// POST /api/admin/backup
func (h *HTTPHandler) AdminBackup(c *gin.Context) {
	backupPath, err := h.backupSvc.Backup()
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"backup_path": backupPath})
}

// Health returns health status.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

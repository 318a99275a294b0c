package handler

import (
	"net/http"
	"time"

	"github.com/sirsasha78/AdMarketplace/internal/model"
	"github.com/sirsasha78/AdMarketplace/internal/repository"
	"github.com/sirsasha78/AdMarketplace/pkg/config"
	"github.com/sirsasha78/AdMarketplace/pkg/jwtutil"
	"github.com/sirsasha78/AdMarketplace/pkg/logger"
	"github.com/sirsasha78/AdMarketplace/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AnnouncementHandler serves listing CRUD plus the administrative recovery
// operations over soft-deleted listings.
type AnnouncementHandler struct {
	announcements *repository.SoftDeleteRepository[model.Announcement]
	categories    *repository.Repository[model.Category]
	sellers       *repository.Repository[model.Seller]
	cfg           *config.Config
}

func NewAnnouncementHandler(
	announcements *repository.SoftDeleteRepository[model.Announcement],
	categories *repository.Repository[model.Category],
	sellers *repository.Repository[model.Seller],
	cfg *config.Config,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcements: announcements,
		categories:    categories,
		sellers:       sellers,
		cfg:           cfg,
	}
}

// ListAnnouncements handles retrieving active announcements with optional filtering
func (h *AnnouncementHandler) ListAnnouncements(c echo.Context) error {
	log := logger.FromEcho(c)

	rs := h.announcements.Scope()
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		rs = rs.Where("category_id = ?", categoryID)
	}
	if condition := c.QueryParam("condition"); condition != "" {
		rs = rs.Where("condition = ?", condition)
	}
	if sellerID := c.QueryParam("seller_id"); sellerID != "" {
		rs = rs.Where("seller_id = ?", sellerID)
	}

	announcements, err := rs.All(c.Request().Context())
	if err != nil {
		log.Error("Failed to list announcements", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve announcements"})
	}

	return c.JSON(http.StatusOK, announcements)
}

// GetAnnouncement handles retrieving a single active announcement by slug
func (h *AnnouncementHandler) GetAnnouncement(c echo.Context) error {
	log := logger.FromEcho(c)
	slug := c.Param("slug")

	announcement, err := h.announcements.GetOrNone(c.Request().Context(), "slug = ?", slug)
	if err != nil {
		log.Error("Failed to look up announcement", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve announcement"})
	}
	if announcement == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Announcement not found"})
	}

	return c.JSON(http.StatusOK, announcement)
}

// CreateAnnouncement handles publishing a new listing. The caller must own an
// approved seller profile; the image arrives in the same multipart form.
func (h *AnnouncementHandler) CreateAnnouncement(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	userID, _ := c.Get("user_id").(string)
	seller, err := h.sellers.GetOrNone(ctx, "user_id = ?", userID)
	if err != nil {
		log.Error("Failed to look up seller profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create announcement"})
	}
	if seller == nil || !seller.IsApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "an approved seller profile is required"})
	}

	title := c.FormValue("title")
	description := c.FormValue("description")
	condition := c.FormValue("condition")
	if title == "" || description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}
	if condition != model.ConditionNew && condition != model.ConditionUsed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "condition must be NEW or USED"})
	}

	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil || price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a non-negative decimal"})
	}

	categoryID, err := uuid.Parse(c.FormValue("category_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id is required"})
	}
	category, err := h.categories.GetOrNone(ctx, "id = ?", categoryID)
	if err != nil {
		log.Error("Failed to look up category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create announcement"})
	}
	if category == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category does not exist"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image is required"})
	}
	imagePath, err := saveUploadedImage(fh, h.cfg.Upload.Dir, "announcement_images")
	if err != nil {
		if isUploadValidationError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Error("Failed to store announcement image", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store image"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	announcement := model.Announcement{
		Title:       title,
		Description: description,
		Price:       price,
		CategoryID:  category.ID,
		SellerID:    &seller.ID,
		Condition:   condition,
		Image:       imagePath,
	}
	if err := h.announcements.Create(ctx, &announcement); err != nil {
		log.Error("Failed to create announcement", zap.String("title", title), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create announcement"})
	}

	prometheus.RecordEntityOperation("announcement", "create")
	log.Info("Announcement created",
		zap.String("announcement_id", announcement.ID.String()),
		zap.String("slug", announcement.Slug),
		zap.String("seller_id", seller.ID.String()))
	return c.JSON(http.StatusCreated, announcement)
}

// DeleteAnnouncement withdraws a listing (soft delete). The owning seller or
// an administrator may do this; the record stays recoverable.
func (h *AnnouncementHandler) DeleteAnnouncement(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	slug := c.Param("slug")

	announcement, err := h.announcements.GetOrNone(ctx, "slug = ?", slug)
	if err != nil {
		log.Error("Failed to look up announcement", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete announcement"})
	}
	if announcement == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Announcement not found"})
	}

	if group, _ := c.Get("group").(string); group != jwtutil.GroupAdmin {
		userID, _ := c.Get("user_id").(string)
		seller, err := h.sellers.GetOrNone(ctx, "user_id = ?", userID)
		if err != nil {
			log.Error("Failed to look up seller profile", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete announcement"})
		}
		if seller == nil || announcement.SellerID == nil || *announcement.SellerID != seller.ID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the owner can withdraw an announcement"})
		}
	}

	if err := h.announcements.SoftDeleteOne(ctx, announcement); err != nil {
		log.Error("Failed to delete announcement", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete announcement"})
	}

	prometheus.RecordEntityOperation("announcement", "delete")
	log.Info("Announcement withdrawn",
		zap.String("announcement_id", announcement.ID.String()),
		zap.String("slug", announcement.Slug))
	return c.JSON(http.StatusOK, echo.Map{"message": "Announcement deleted successfully"})
}

// ListAllAnnouncements is the administrative view including withdrawn records
func (h *AnnouncementHandler) ListAllAnnouncements(c echo.Context) error {
	log := logger.FromEcho(c)

	announcements, err := h.announcements.Unfiltered().All(c.Request().Context())
	if err != nil {
		log.Error("Failed to list announcements", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve announcements"})
	}

	return c.JSON(http.StatusOK, announcements)
}

// RestoreAnnouncement brings a withdrawn listing back into the catalogue
func (h *AnnouncementHandler) RestoreAnnouncement(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	slug := c.Param("slug")

	announcement, err := h.announcements.Unfiltered().Where("slug = ?", slug).GetOrNone(ctx)
	if err != nil {
		log.Error("Failed to look up announcement", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to restore announcement"})
	}
	if announcement == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Announcement not found"})
	}

	if err := h.announcements.RestoreOne(ctx, announcement); err != nil {
		log.Error("Failed to restore announcement", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to restore announcement"})
	}

	prometheus.RecordsRestoredCounter.WithLabelValues("announcement").Inc()
	log.Info("Announcement restored",
		zap.String("announcement_id", announcement.ID.String()),
		zap.String("slug", announcement.Slug))
	return c.JSON(http.StatusOK, announcement)
}

// PurgeAnnouncement permanently removes a listing, soft-deleted or not
func (h *AnnouncementHandler) PurgeAnnouncement(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	slug := c.Param("slug")

	announcement, err := h.announcements.Unfiltered().Where("slug = ?", slug).GetOrNone(ctx)
	if err != nil {
		log.Error("Failed to look up announcement", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to purge announcement"})
	}
	if announcement == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Announcement not found"})
	}

	if err := h.announcements.HardDeleteOne(ctx, announcement); err != nil {
		log.Error("Failed to purge announcement", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to purge announcement"})
	}

	prometheus.RecordsPurgedCounter.WithLabelValues("announcement").Inc()
	log.Info("Announcement purged",
		zap.String("announcement_id", announcement.ID.String()),
		zap.String("slug", announcement.Slug))
	return c.JSON(http.StatusOK, echo.Map{"message": "Announcement permanently removed"})
}

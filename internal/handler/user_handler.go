package handler

import (
	"net/http"
	"time"

	"github.com/sirsasha78/AdMarketplace/internal/model"
	"github.com/sirsasha78/AdMarketplace/internal/repository"
	"github.com/sirsasha78/AdMarketplace/pkg/config"
	"github.com/sirsasha78/AdMarketplace/pkg/logger"
	"github.com/sirsasha78/AdMarketplace/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler serves the authenticated account surface plus the
// administrative recovery operations over user records.
type UserHandler struct {
	users     *repository.SoftDeleteRepository[model.User]
	sellers   *repository.Repository[model.Seller]
	addresses *repository.Repository[model.ShippingAddress]
	db        *gorm.DB
	cfg       *config.Config
}

func NewUserHandler(
	users *repository.SoftDeleteRepository[model.User],
	sellers *repository.Repository[model.Seller],
	addresses *repository.Repository[model.ShippingAddress],
	db *gorm.DB,
	cfg *config.Config,
) *UserHandler {
	return &UserHandler{users: users, sellers: sellers, addresses: addresses, db: db, cfg: cfg}
}

// Me handles retrieving the caller's own account
func (h *UserHandler) Me(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := c.Get("user_id").(string)

	user, err := h.users.GetOrNone(c.Request().Context(), "id = ?", userID)
	if err != nil {
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve account"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Account not found"})
	}

	return c.JSON(http.StatusOK, user)
}

// UploadAvatar handles replacing the caller's profile picture
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	userID, _ := c.Get("user_id").(string)

	user, err := h.users.GetOrNone(ctx, "id = ?", userID)
	if err != nil {
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to upload avatar"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Account not found"})
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "avatar is required"})
	}
	avatarPath, err := saveUploadedImage(fh, h.cfg.Upload.Dir, "user_avatars")
	if err != nil {
		if isUploadValidationError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Error("Failed to store avatar", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store avatar"})
	}

	user.Avatar = avatarPath
	if err := h.users.Save(ctx, user); err != nil {
		log.Error("Failed to update avatar", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to upload avatar"})
	}

	prometheus.RecordEntityOperation("user", "avatar_upload")
	log.Info("Avatar updated", zap.String("user_id", user.ID.String()))
	return c.JSON(http.StatusOK, user)
}

// Deactivate soft-deletes the caller's own account. The record stays
// recoverable by an administrator; login stops working immediately.
func (h *UserHandler) Deactivate(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	userID, _ := c.Get("user_id").(string)

	user, err := h.users.GetOrNone(ctx, "id = ?", userID)
	if err != nil {
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to deactivate account"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Account not found"})
	}

	if err := h.users.SoftDeleteOne(ctx, user); err != nil {
		log.Error("Failed to deactivate account", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to deactivate account"})
	}

	prometheus.RecordEntityOperation("user", "deactivate")
	log.Info("Account deactivated", zap.String("user_id", user.ID.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deactivated"})
}

// ListUsers is the administrative view of all accounts including
// deactivated ones
func (h *UserHandler) ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	users, err := h.users.Unfiltered().All(c.Request().Context())
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve users"})
	}

	return c.JSON(http.StatusOK, users)
}

// RestoreUser reactivates a deactivated account
func (h *UserHandler) RestoreUser(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	user, err := h.users.Unfiltered().Where("id = ?", id).GetOrNone(ctx)
	if err != nil {
		log.Error("Failed to look up user", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to restore user"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	if err := h.users.RestoreOne(ctx, user); err != nil {
		log.Error("Failed to restore user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to restore user"})
	}

	prometheus.RecordsRestoredCounter.WithLabelValues("user").Inc()
	log.Info("User restored", zap.String("user_id", user.ID.String()))
	return c.JSON(http.StatusOK, user)
}

// PurgeUser permanently removes an account with its dependents: shipping
// addresses and the seller profile go with it, while the seller's
// announcements survive unattributed. The response carries the per-table
// breakdown of what was removed.
func (h *UserHandler) PurgeUser(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	user, err := h.users.Unfiltered().Where("id = ?", id).GetOrNone(ctx)
	if err != nil {
		log.Error("Failed to look up user", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to purge user"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	// One transaction covering all three tables: addresses, the seller
	// profile and the account disappear together or not at all.
	var result repository.DeleteResult
	err = h.db.Transaction(func(tx *gorm.DB) error {
		addrResult, txErr := h.addresses.WithTx(tx).DeleteWhere(ctx, "user_id = ?", user.ID)
		if txErr != nil {
			return txErr
		}
		result.Merge(addrResult)

		sellerResult, txErr := h.sellers.WithTx(tx).DeleteWhere(ctx, "user_id = ?", user.ID)
		if txErr != nil {
			return txErr
		}
		result.Merge(sellerResult)

		if txErr = h.users.WithTx(tx).HardDeleteOne(ctx, user); txErr != nil {
			return txErr
		}
		result.Merge(repository.DeleteResult{Rows: 1, ByTable: map[string]int64{"users": 1}})
		return nil
	})
	if err != nil {
		log.Error("Failed to purge user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to purge user"})
	}

	prometheus.RecordsPurgedCounter.WithLabelValues("user").Inc()
	log.Info("User purged",
		zap.String("user_id", user.ID.String()),
		zap.Int64("rows_deleted", result.Rows))
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "User permanently removed",
		"deleted":   result.Rows,
		"breakdown": result.ByTable,
	})
}

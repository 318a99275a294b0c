package handler

import (
	"errors"
	"net/http"

	"github.com/sirsasha78/AdMarketplace/internal/model"
	"github.com/sirsasha78/AdMarketplace/internal/repository"
	"github.com/sirsasha78/AdMarketplace/pkg/logger"
	"github.com/sirsasha78/AdMarketplace/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SellerHandler serves seller profile registration and moderation.
type SellerHandler struct {
	sellers  *repository.Repository[model.Seller]
	users    *repository.SoftDeleteRepository[model.User]
	validate *validator.Validate
}

func NewSellerHandler(
	sellers *repository.Repository[model.Seller],
	users *repository.SoftDeleteRepository[model.User],
) *SellerHandler {
	return &SellerHandler{
		sellers:  sellers,
		users:    users,
		validate: validator.New(),
	}
}

// SellerApplication defines the structure for seller registration requests
type SellerApplication struct {
	CompanyName string `json:"company_name"`
	Name        string `json:"name"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,url"`
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Description string `json:"description"`
}

// ListSellers handles retrieving all approved seller profiles
func (h *SellerHandler) ListSellers(c echo.Context) error {
	log := logger.FromEcho(c)

	sellers, err := h.sellers.Find(c.Request().Context(), "is_approved = ?", true)
	if err != nil {
		log.Error("Failed to list sellers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve sellers"})
	}

	return c.JSON(http.StatusOK, sellers)
}

// GetSeller handles retrieving a single seller profile by slug
func (h *SellerHandler) GetSeller(c echo.Context) error {
	log := logger.FromEcho(c)
	slug := c.Param("slug")

	seller, err := h.sellers.GetOrNone(c.Request().Context(), "slug = ?", slug)
	if err != nil {
		log.Error("Failed to look up seller", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve seller"})
	}
	if seller == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Seller not found"})
	}

	return c.JSON(http.StatusOK, seller)
}

// ApplyAsSeller handles a user registering a seller profile. The profile
// starts unapproved and waits for moderation; one profile per account.
func (h *SellerHandler) ApplyAsSeller(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	userID, _ := c.Get("user_id").(string)
	uid, err := uuid.Parse(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
	}

	user, err := h.users.GetOrNone(ctx, "id = ?", uid)
	if err != nil {
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to register seller"})
	}
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account not found"})
	}
	if user.AccountType != model.AccountTypeSeller {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only seller accounts can register a seller profile"})
	}

	var req SellerApplication
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number must be E.164 and website_url must be a valid URL"})
	}
	if req.CompanyName == "" && req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "either company_name or name is required"})
	}

	seller := model.Seller{
		UserID:      uid,
		CompanyName: req.CompanyName,
		Name:        req.Name,
		WebsiteURL:  req.WebsiteURL,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	}
	if err := h.sellers.Create(ctx, &seller); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a seller profile already exists for this account"})
		}
		log.Error("Failed to create seller profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to register seller"})
	}

	prometheus.RecordEntityOperation("seller", "create")
	log.Info("Seller profile registered",
		zap.String("seller_id", seller.ID.String()),
		zap.String("user_id", uid.String()),
		zap.String("slug", seller.Slug))
	return c.JSON(http.StatusCreated, seller)
}

// UpdateSellerProfile handles the owner editing their seller profile. The
// slug follows the display name automatically.
func (h *SellerHandler) UpdateSellerProfile(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	userID, _ := c.Get("user_id").(string)
	seller, err := h.sellers.GetOrNone(ctx, "user_id = ?", userID)
	if err != nil {
		log.Error("Failed to look up seller profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update seller"})
	}
	if seller == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Seller profile not found"})
	}

	var req SellerApplication
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number must be E.164 and website_url must be a valid URL"})
	}

	seller.CompanyName = req.CompanyName
	seller.Name = req.Name
	seller.WebsiteURL = req.WebsiteURL
	seller.PhoneNumber = req.PhoneNumber
	seller.Description = req.Description

	if err := h.sellers.Save(ctx, seller); err != nil {
		log.Error("Failed to update seller profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update seller"})
	}

	prometheus.RecordEntityOperation("seller", "update")
	log.Info("Seller profile updated",
		zap.String("seller_id", seller.ID.String()),
		zap.String("slug", seller.Slug))
	return c.JSON(http.StatusOK, seller)
}

// ApproveSeller is the moderation step flipping a profile live
func (h *SellerHandler) ApproveSeller(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	slug := c.Param("slug")

	seller, err := h.sellers.GetOrNone(ctx, "slug = ?", slug)
	if err != nil {
		log.Error("Failed to look up seller", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to approve seller"})
	}
	if seller == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Seller not found"})
	}

	if !seller.IsApproved {
		seller.IsApproved = true
		if err := h.sellers.Save(ctx, seller); err != nil {
			log.Error("Failed to approve seller", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to approve seller"})
		}
	}

	prometheus.RecordEntityOperation("seller", "approve")
	log.Info("Seller approved",
		zap.String("seller_id", seller.ID.String()),
		zap.String("slug", seller.Slug))
	return c.JSON(http.StatusOK, seller)
}

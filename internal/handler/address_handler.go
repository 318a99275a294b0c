package handler

import (
	"net/http"

	"github.com/sirsasha78/AdMarketplace/internal/model"
	"github.com/sirsasha78/AdMarketplace/internal/repository"
	"github.com/sirsasha78/AdMarketplace/pkg/logger"
	"github.com/sirsasha78/AdMarketplace/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AddressHandler serves a user's shipping address book. Every operation is
// scoped to the authenticated owner.
type AddressHandler struct {
	addresses *repository.Repository[model.ShippingAddress]
	validate  *validator.Validate
}

func NewAddressHandler(addresses *repository.Repository[model.ShippingAddress]) *AddressHandler {
	return &AddressHandler{
		addresses: addresses,
		validate:  validator.New(),
	}
}

// AddressRequest defines the structure for shipping address payloads
type AddressRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,e164"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Country  string `json:"country" validate:"required"`
	Zipcode  string `json:"zipcode" validate:"required,max=6"`
}

// ListAddresses handles retrieving the caller's addresses
func (h *AddressHandler) ListAddresses(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := c.Get("user_id").(string)

	addresses, err := h.addresses.Find(c.Request().Context(), "user_id = ?", userID)
	if err != nil {
		log.Error("Failed to list addresses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve addresses"})
	}

	return c.JSON(http.StatusOK, addresses)
}

// CreateAddress handles adding an address to the caller's address book
func (h *AddressHandler) CreateAddress(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, _ := c.Get("user_id").(string)
	uid, err := uuid.Parse(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all address fields are required; phone must be E.164 and email must be valid"})
	}

	address := model.ShippingAddress{
		UserID:   uid,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
		Zipcode:  req.Zipcode,
	}
	if err := h.addresses.Create(c.Request().Context(), &address); err != nil {
		log.Error("Failed to create address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create address"})
	}

	prometheus.RecordEntityOperation("shipping_address", "create")
	log.Info("Shipping address created",
		zap.String("address_id", address.ID.String()),
		zap.String("user_id", uid.String()))
	return c.JSON(http.StatusCreated, address)
}

// UpdateAddress handles editing one of the caller's addresses
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	userID, _ := c.Get("user_id").(string)

	address, err := h.addresses.GetOrNone(ctx, "id = ? AND user_id = ?", c.Param("id"), userID)
	if err != nil {
		log.Error("Failed to look up address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update address"})
	}
	if address == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Address not found"})
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all address fields are required; phone must be E.164 and email must be valid"})
	}

	address.FullName = req.FullName
	address.Email = req.Email
	address.Phone = req.Phone
	address.Address = req.Address
	address.City = req.City
	address.Country = req.Country
	address.Zipcode = req.Zipcode

	if err := h.addresses.Save(ctx, address); err != nil {
		log.Error("Failed to update address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update address"})
	}

	prometheus.RecordEntityOperation("shipping_address", "update")
	return c.JSON(http.StatusOK, address)
}

// DeleteAddress handles removing one of the caller's addresses. Addresses
// carry no deletion flag; removal is physical.
func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	userID, _ := c.Get("user_id").(string)

	address, err := h.addresses.GetOrNone(ctx, "id = ? AND user_id = ?", c.Param("id"), userID)
	if err != nil {
		log.Error("Failed to look up address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete address"})
	}
	if address == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Address not found"})
	}

	if err := h.addresses.DeleteOne(ctx, address); err != nil {
		log.Error("Failed to delete address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete address"})
	}

	prometheus.RecordEntityOperation("shipping_address", "delete")
	log.Info("Shipping address deleted",
		zap.String("address_id", address.ID.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "Address deleted successfully"})
}

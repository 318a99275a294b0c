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

// CategoryHandler serves the announcement category catalogue. Categories are
// managed by administrators; reading is public.
type CategoryHandler struct {
	categories    *repository.Repository[model.Category]
	announcements *repository.SoftDeleteRepository[model.Announcement]
	db            *gorm.DB
	cfg           *config.Config
}

func NewCategoryHandler(
	categories *repository.Repository[model.Category],
	announcements *repository.SoftDeleteRepository[model.Announcement],
	db *gorm.DB,
	cfg *config.Config,
) *CategoryHandler {
	return &CategoryHandler{categories: categories, announcements: announcements, db: db, cfg: cfg}
}

// ListCategories handles retrieving all categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	log := logger.FromEcho(c)

	categories, err := h.categories.All(c.Request().Context())
	if err != nil {
		log.Error("Failed to list categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles retrieving a single category by slug
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	log := logger.FromEcho(c)
	slug := c.Param("slug")

	category, err := h.categories.GetOrNone(c.Request().Context(), "slug = ?", slug)
	if err != nil {
		log.Error("Failed to look up category", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve category"})
	}
	if category == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles creating a new category with its image
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	name := c.FormValue("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image is required"})
	}
	imagePath, err := saveUploadedImage(fh, h.cfg.Upload.Dir, "category_images")
	if err != nil {
		if isUploadValidationError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Error("Failed to store category image", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store image"})
	}

	existing, err := h.categories.GetOrNone(ctx, "name = ?", name)
	if err != nil {
		log.Error("Failed to check category name", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Category with this name already exists"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	category := model.Category{Name: name, Image: imagePath}
	if err := h.categories.Create(ctx, &category); err != nil {
		log.Error("Failed to create category", zap.String("name", name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	prometheus.RecordEntityOperation("category", "create")
	log.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
		zap.String("slug", category.Slug))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles renaming a category and replacing its image
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	slug := c.Param("slug")

	category, err := h.categories.GetOrNone(ctx, "slug = ?", slug)
	if err != nil {
		log.Error("Failed to look up category", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}
	if category == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	if name := c.FormValue("name"); name != "" {
		category.Name = name
	}
	if fh, err := c.FormFile("image"); err == nil {
		imagePath, err := saveUploadedImage(fh, h.cfg.Upload.Dir, "category_images")
		if err != nil {
			if isUploadValidationError(err) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			log.Error("Failed to store category image", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store image"})
		}
		category.Image = imagePath
	}

	if err := h.categories.Save(ctx, category); err != nil {
		log.Error("Failed to update category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}

	prometheus.RecordEntityOperation("category", "update")
	log.Info("Category updated",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory permanently removes a category together with its
// announcements, reporting the per-table breakdown of what went away.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	slug := c.Param("slug")

	category, err := h.categories.GetOrNone(ctx, "slug = ?", slug)
	if err != nil {
		log.Error("Failed to look up category", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}
	if category == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	// One transaction: the dependent announcements and the category go
	// together or not at all, and the breakdown mirrors the cascade.
	var result repository.DeleteResult
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = h.announcements.WithTx(tx).Unfiltered().
			Where("category_id = ?", category.ID).
			Delete(ctx, true)
		if txErr != nil {
			return txErr
		}

		if txErr = h.categories.WithTx(tx).DeleteOne(ctx, category); txErr != nil {
			return txErr
		}
		result.Merge(repository.DeleteResult{Rows: 1, ByTable: map[string]int64{"categories": 1}})
		return nil
	})
	if err != nil {
		log.Error("Failed to delete category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}

	prometheus.RecordEntityOperation("category", "delete")
	prometheus.RecordsPurgedCounter.WithLabelValues("category").Inc()
	log.Info("Category deleted",
		zap.String("category_id", category.ID.String()),
		zap.Int64("rows_deleted", result.Rows))
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Category deleted successfully",
		"deleted":   result.Rows,
		"breakdown": result.ByTable,
	})
}

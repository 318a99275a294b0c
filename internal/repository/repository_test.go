package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirsasha78/AdMarketplace/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Seller{},
		&model.Category{},
		&model.Announcement{},
		&model.ShippingAddress{},
	))
	return db
}

func newUser(email string) *model.User {
	return &model.User{
		Email:       email,
		FirstName:   "Jane",
		LastName:    "Doe",
		AccountType: model.AccountTypeBuyer,
	}
}

func TestSoftDeleteHidesRecordFromDefaultScope(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	keep := newUser("keep@example.com")
	drop := newUser("drop@example.com")
	require.NoError(t, users.Create(ctx, keep))
	require.NoError(t, users.Create(ctx, drop))

	require.NoError(t, users.SoftDeleteOne(ctx, drop))
	assert.True(t, drop.IsDeleted)
	require.NotNil(t, drop.DeletedAt)

	active, err := users.All(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "keep@example.com", active[0].Email)

	// The deleted record is invisible to scoped lookups...
	got, err := users.GetOrNone(ctx, "email = ?", "drop@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	// ...but still present in the unfiltered view, flag and timestamp set.
	all, err := users.Unfiltered().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, u := range all {
		if u.Email == "drop@example.com" {
			assert.True(t, u.IsDeleted)
			assert.NotNil(t, u.DeletedAt)
		}
	}
}

func TestRestoreBringsRecordBack(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	u := newUser("jane@example.com")
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.SoftDeleteOne(ctx, u))

	require.NoError(t, users.RestoreOne(ctx, u))
	assert.False(t, u.IsDeleted)
	assert.Nil(t, u.DeletedAt)

	got, err := users.GetOrNone(ctx, "email = ?", "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedAt)
}

func TestRestoreOnActiveRecordIsNoOp(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	u := newUser("jane@example.com")
	require.NoError(t, users.Create(ctx, u))
	updatedAt := u.UpdatedAt

	require.NoError(t, users.RestoreOne(ctx, u))
	assert.False(t, u.IsDeleted)

	got, err := users.GetOrNone(ctx, "email = ?", "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, updatedAt.Unix(), got.UpdatedAt.Unix())
}

func TestBulkSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	for i := 0; i < 3; i++ {
		require.NoError(t, users.Create(ctx, newUser(fmt.Sprintf("u%d@example.com", i))))
	}
	require.NoError(t, users.Create(ctx, &model.User{
		Email:       "seller@example.com",
		AccountType: model.AccountTypeSeller,
	}))

	res, err := users.Where("account_type = ?", model.AccountTypeBuyer).Delete(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Rows)

	active, err := users.All(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "seller@example.com", active[0].Email)

	restored, err := users.Unfiltered().Where("account_type = ?", model.AccountTypeBuyer).Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), restored)

	active, err = users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 4)
}

func TestHardDeleteIsIrreversible(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	u := newUser("gone@example.com")
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.HardDeleteOne(ctx, u))

	count, err := users.Unfiltered().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestHardDeleteAllPurgesSoftDeletedRecords(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	soft := newUser("soft@example.com")
	require.NoError(t, users.Create(ctx, soft))
	require.NoError(t, users.Create(ctx, newUser("active@example.com")))
	require.NoError(t, users.SoftDeleteOne(ctx, soft))

	res, err := users.HardDeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Rows)
	assert.Equal(t, int64(2), res.ByTable["users"])

	count, err := users.Unfiltered().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGetOrNone(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	got, err := users.GetOrNone(ctx, "email = ?", "absent@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	u := newUser("present@example.com")
	require.NoError(t, users.Create(ctx, u))

	got, err = users.GetOrNone(ctx, "email = ?", "present@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestGetOrNoneTakesNewestOnMultipleMatches(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	older := newUser("older@example.com")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newUser("newer@example.com")
	require.NoError(t, users.Create(ctx, older))
	require.NoError(t, users.Create(ctx, newer))

	got, err := users.GetOrNone(ctx, "account_type = ?", model.AccountTypeBuyer)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "newer@example.com", got.Email)
}

func TestDuplicateEmailIsRejected(t *testing.T) {
	ctx := context.Background()
	users := NewSoftDelete[model.User](newTestDB(t))

	require.NoError(t, users.Create(ctx, newUser("jane@example.com")))
	err := users.Create(ctx, newUser("jane@example.com"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCategorySlugDerivedAndUnique(t *testing.T) {
	ctx := context.Background()
	categories := New[model.Category](newTestDB(t))

	first := &model.Category{Name: "Garden & Tools", Image: "categories/garden.png"}
	require.NoError(t, categories.Create(ctx, first))
	assert.Equal(t, "garden-tools", first.Slug)

	second := &model.Category{Name: "Garden -- Tools!", Image: "categories/garden2.png"}
	require.NoError(t, categories.Create(ctx, second))
	assert.Equal(t, "garden-tools-2", second.Slug)
}

func TestDeleteWhereReportsRowsByTable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSoftDelete[model.User](db)
	addresses := New[model.ShippingAddress](db)

	owner := newUser("owner@example.com")
	require.NoError(t, users.Create(ctx, owner))
	for i := 0; i < 2; i++ {
		require.NoError(t, addresses.Create(ctx, &model.ShippingAddress{
			UserID:   owner.ID,
			FullName: "Jane Doe",
			Email:    owner.Email,
			Phone:    "+12025550100",
			Address:  fmt.Sprintf("%d Main St", i+1),
			City:     "Springfield",
			Country:  "USA",
			Zipcode:  "12345",
		}))
	}

	res, err := addresses.DeleteWhere(ctx, "user_id = ?", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Rows)
	assert.Equal(t, int64(2), res.ByTable["shipping_addresses"])

	count, err := addresses.Count(ctx, "user_id = ?", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestComposedDeleteRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSoftDelete[model.User](db)
	sellers := New[model.Seller](db)
	addresses := New[model.ShippingAddress](db)

	owner := newUser("owner@example.com")
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, sellers.Create(ctx, &model.Seller{
		UserID:      owner.ID,
		CompanyName: "Acme",
		PhoneNumber: "+12025550100",
	}))
	require.NoError(t, addresses.Create(ctx, &model.ShippingAddress{
		UserID:   owner.ID,
		FullName: "Jane Doe",
		Email:    owner.Email,
		Phone:    "+12025550100",
		Address:  "1 Main St",
		City:     "Springfield",
		Country:  "USA",
		Zipcode:  "12345",
	}))

	boom := errors.New("connection lost")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, txErr := addresses.WithTx(tx).DeleteWhere(ctx, "user_id = ?", owner.ID); txErr != nil {
			return txErr
		}
		if _, txErr := sellers.WithTx(tx).DeleteWhere(ctx, "user_id = ?", owner.ID); txErr != nil {
			return txErr
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The failed transaction must leave every dependent row in place.
	addrCount, err := addresses.Count(ctx, "user_id = ?", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), addrCount)

	sellerCount, err := sellers.Count(ctx, "user_id = ?", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sellerCount)
}

func TestComposedDeleteCommitsAcrossTables(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSoftDelete[model.User](db)
	sellers := New[model.Seller](db)
	addresses := New[model.ShippingAddress](db)

	owner := newUser("owner@example.com")
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, sellers.Create(ctx, &model.Seller{UserID: owner.ID, Name: "Jane"}))
	require.NoError(t, addresses.Create(ctx, &model.ShippingAddress{
		UserID:   owner.ID,
		FullName: "Jane Doe",
		Email:    owner.Email,
		Phone:    "+12025550100",
		Address:  "1 Main St",
		City:     "Springfield",
		Country:  "USA",
		Zipcode:  "12345",
	}))

	var result DeleteResult
	err := db.Transaction(func(tx *gorm.DB) error {
		addrRes, txErr := addresses.WithTx(tx).DeleteWhere(ctx, "user_id = ?", owner.ID)
		if txErr != nil {
			return txErr
		}
		result.Merge(addrRes)

		sellerRes, txErr := sellers.WithTx(tx).DeleteWhere(ctx, "user_id = ?", owner.ID)
		if txErr != nil {
			return txErr
		}
		result.Merge(sellerRes)

		if txErr := users.WithTx(tx).HardDeleteOne(ctx, owner); txErr != nil {
			return txErr
		}
		result.Merge(DeleteResult{Rows: 1, ByTable: map[string]int64{"users": 1}})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Rows)
	assert.Equal(t, int64(1), result.ByTable["shipping_addresses"])
	assert.Equal(t, int64(1), result.ByTable["sellers"])
	assert.Equal(t, int64(1), result.ByTable["users"])

	remaining, err := users.Unfiltered().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
}

func TestBulkSoftDeleteAndRestoreKeepSlugsIntact(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := New[model.Category](db)
	announcements := NewSoftDelete[model.Announcement](db)

	cat := &model.Category{Name: "Bikes", Image: "categories/bikes.png"}
	require.NoError(t, categories.Create(ctx, cat))

	first := &model.Announcement{
		Title:       "City Bike",
		Description: "Barely used",
		Price:       decimal.NewFromInt(120),
		CategoryID:  cat.ID,
		Condition:   model.ConditionUsed,
		Image:       "announcements/bike.png",
	}
	require.NoError(t, announcements.Create(ctx, first))
	require.Equal(t, "city-bike", first.Slug)

	res, err := announcements.Where("category_id = ?", cat.ID).Delete(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Rows)

	restored, err := announcements.Unfiltered().Where("category_id = ?", cat.ID).Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), restored)

	// The bulk updates touch only the deletion columns; the slug written by
	// the save hook stays exactly as created.
	got, err := announcements.GetOrNone(ctx, "id = ?", first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "city-bike", got.Slug)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedAt)
}

func TestDeleteResultMerge(t *testing.T) {
	res := DeleteResult{Rows: 1, ByTable: map[string]int64{"categories": 1}}
	res.Merge(DeleteResult{Rows: 3, ByTable: map[string]int64{"announcements": 3}})

	assert.Equal(t, int64(4), res.Rows)
	assert.Equal(t, int64(1), res.ByTable["categories"])
	assert.Equal(t, int64(3), res.ByTable["announcements"])
}

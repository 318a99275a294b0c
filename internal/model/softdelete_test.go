package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDeleteTransitions(t *testing.T) {
	var u User
	assert.False(t, u.Deleted())
	assert.Nil(t, u.DeletedAt)

	now := time.Now()
	u.MarkDeleted(now)
	assert.True(t, u.Deleted())
	require.NotNil(t, u.DeletedAt)
	assert.Equal(t, now, *u.DeletedAt)

	u.ClearDeleted()
	assert.False(t, u.Deleted())
	assert.Nil(t, u.DeletedAt)
}

func TestSellerDisplayName(t *testing.T) {
	s := Seller{CompanyName: "Acme Ltd", Name: "Jane Doe"}
	assert.Equal(t, "Acme Ltd", s.DisplayName())

	s.CompanyName = ""
	assert.Equal(t, "Jane Doe", s.DisplayName())

	s.Name = ""
	assert.Equal(t, "seller_"+s.UserID.String(), s.DisplayName())
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	assert.Equal(t, "Jane Doe", u.FullName())

	u.FirstName, u.LastName = "", ""
	assert.Equal(t, "jane@example.com", u.FullName())
}

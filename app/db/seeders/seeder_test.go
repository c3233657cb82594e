package seeders

import (
	"testing"

	"github.com/Rakhulsr/go-perfumery/app/db/testdb"
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDBSeed(t *testing.T) {
	db := testdb.Open(t)
	opts := Options{AdminUsername: "admin", AdminPassword: "admin123", Perfumes: 5}

	require.NoError(t, DBSeed(db, zap.NewNop(), opts))
	require.NoError(t, DBSeed(db, zap.NewNop(), opts))

	var admins []models.User
	require.NoError(t, db.Where("role_id = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Username)
	assert.True(t, helpers.PasswordCompare(admins[0].PasswordHash, []byte("admin123")))

	var perfumes []models.Perfume
	require.NoError(t, db.Find(&perfumes).Error)
	assert.Len(t, perfumes, 10)
	for _, p := range perfumes {
		assert.NotEmpty(t, p.Sizes)
		assert.True(t, p.Price.IsPositive())
		assert.Equal(t, p.Quantity > 0, p.Available)
	}
}

package fakers

import (
	"fmt"
	"math/rand"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/go-faker/faker/v4"
)

// UserFaker builds a user with the given role. An empty username gets a
// random one.
func UserFaker(username, password string, roleID int) (*models.User, error) {
	if username == "" {
		username = faker.Username()
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, faker.DomainName()),
		PhoneNumber:  fmt.Sprintf("08%010d", rand.Int63n(1e10)),
		PasswordHash: hash,
		RoleID:       roleID,
	}, nil
}

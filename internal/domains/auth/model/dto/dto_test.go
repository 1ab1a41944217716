package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventhub/internal/domains/auth/model/dto"
	userModel "eventhub/internal/domains/user/model"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		Name:     "  Asha Rao ",
		Email:    " Asha@Example.COM ",
		Password: "secret",
		Phone:    "9876543210",
		Role:     "Vendor",
	}
	req.Normalize()

	user := req.ToUserModel("hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Asha Rao", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "vendor", user.Role)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, user.ID, user.CreatedBy)
}

func TestSessionUser_FromModel(t *testing.T) {
	var res dto.SessionUser
	res.FromModel(userModel.User{ID: "u-1", Name: "Asha", Email: "asha@example.com", Password: "hash", Role: "customer"})

	assert.Equal(t, dto.SessionUser{ID: "u-1", Name: "Asha", Email: "asha@example.com", Role: "customer"}, res)
}

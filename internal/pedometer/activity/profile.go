package activity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid user profile")

// UserProfile is the person recording sessions.
type UserProfile struct {
	Name     string  `json:"name" validate:"required"`
	WeightKg float64 `json:"weightKg" validate:"gt=0"`
}

func NewUserProfile(name string, weightKg float64) (UserProfile, error) {
	p := UserProfile{
		Name:     strings.TrimSpace(name),
		WeightKg: weightKg,
	}
	if err := p.Validate(); err != nil {
		return UserProfile{}, err
	}
	return p, nil
}

func (p UserProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, err)
	}
	return nil
}

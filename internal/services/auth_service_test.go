package services

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/database"
	"github.com/slayk/storefront-admin/internal/utils"
)

type AuthServiceSuite struct {
	serviceSuite
	tokens  *utils.TokenManager
	service *AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.tokens = utils.NewTokenManager("test-secret", 24, "slayk-admin")
	s.service = NewAuthService(s.db, config.AuthConfig{}, s.tokens)

	_, err := database.SeedAdmin(s.ctx, s.db, "admin@slayk.com", "Admin", "correct-horse")
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestLoginIssuesToken() {
	resp, err := s.service.Login(s.ctx, &LoginRequest{Email: "Admin@Slayk.com", Password: "correct-horse"})
	s.Require().NoError(err)

	s.Equal("bearer", resp.TokenType)
	s.Equal(24*60*60, resp.ExpiresIn)
	s.Equal("admin@slayk.com", resp.User.Email)

	claims, err := s.tokens.Validate(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, claims.UserID)
	s.Equal("admin", claims.Role)
	s.Equal("admin@slayk.com", claims.Subject)
}

func (s *AuthServiceSuite) TestLoginFailuresAreIndistinguishable() {
	_, unknown := s.service.Login(s.ctx, &LoginRequest{Email: "nobody@slayk.com", Password: "correct-horse"})
	_, wrong := s.service.Login(s.ctx, &LoginRequest{Email: "admin@slayk.com", Password: "wrong"})

	s.ErrorIs(unknown, ErrInvalidCredentials)
	s.ErrorIs(wrong, ErrInvalidCredentials)
	s.Equal(unknown.Error(), wrong.Error())
}

func (s *AuthServiceSuite) TestRegisterDisabledByDefault() {
	_, err := s.service.Register(s.ctx, &RegisterRequest{Email: "new@slayk.com", Name: "New", Password: "long-enough"})
	s.ErrorIs(err, ErrRegistrationDisabled)
}

func (s *AuthServiceSuite) TestRegisterWhenEnabled() {
	service := NewAuthService(s.db, config.AuthConfig{AllowRegistration: true}, s.tokens)

	resp, err := service.Register(s.ctx, &RegisterRequest{Email: "New@Slayk.com", Name: "New", Password: "long-enough"})
	s.Require().NoError(err)
	s.Equal("new@slayk.com", resp.User.Email)
	s.True(resp.User.IsAdmin())

	_, err = service.Register(s.ctx, &RegisterRequest{Email: "admin@slayk.com", Name: "Dup", Password: "long-enough"})
	s.ErrorIs(err, ErrEmailExists)
}

func (s *AuthServiceSuite) TestGetCurrentUser() {
	resp, err := s.service.Login(s.ctx, &LoginRequest{Email: "admin@slayk.com", Password: "correct-horse"})
	s.Require().NoError(err)

	user, err := s.service.GetCurrentUser(s.ctx, resp.User.ID)
	s.Require().NoError(err)
	s.Equal("Admin", user.Name)

	_, err = s.service.GetCurrentUser(s.ctx, "deleted")
	s.ErrorIs(err, ErrUserNotFound)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

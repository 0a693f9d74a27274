package webserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/pkg/common"
)

const (
	ScopeUser     = "user"
	ScopeOperator = "opr"

	tokenTTL = 24 * time.Hour
)

// TokenClaims is the JWT payload for both customers and operators.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID   int64  `json:"uid"`
	Scope string `json:"scope"`
	Level string `json:"level,omitempty"`
}

func newTokenClaims(c echo.Context) jwt.Claims {
	return new(TokenClaims)
}

func claimsFrom(c echo.Context) *TokenClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*TokenClaims)
	return claims
}

// CurrentUserID returns the authenticated caller's id.
func CurrentUserID(c echo.Context) int64 {
	if claims := claimsFrom(c); claims != nil {
		return claims.UID
	}
	return 0
}

// CurrentLevel returns the operator level, empty for customers.
func CurrentLevel(c echo.Context) string {
	if claims := claimsFrom(c); claims != nil {
		return claims.Level
	}
	return ""
}

func requireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := claimsFrom(c)
			if claims == nil || claims.Scope != scope {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient scope")
			}
			return next(c)
		}
	}
}

// RequireLevel rejects operators whose level is not listed.
func RequireLevel(c echo.Context, levels ...string) error {
	level := CurrentLevel(c)
	for _, l := range levels {
		if strings.EqualFold(level, l) {
			return nil
		}
	}
	return echo.NewHTTPError(http.StatusForbidden, "insufficient level")
}

func (s *WebServer) issueToken(uid int64, scope, level string) (string, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.appc.Config().System.Appid,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
		UID:   uid,
		Scope: scope,
		Level: level,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appc.Config().Web.JwtSecret))
}

type registerPayload struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	ReceiveOffers bool   `json:"receive_offers"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user,omitempty"`
}

func registerAuthRoutes(s *WebServer) {
	s.pub.POST("/auth/register", s.handleRegister)
	s.pub.POST("/auth/login", s.handleLogin)
	s.pub.POST("/admin/login", s.handleOprLogin)
	s.api.GET("/me", s.handleMe)
}

func (s *WebServer) handleRegister(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse registration")
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}
	if len(payload.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}
	if payload.FirstName == "" || payload.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first and last name are required")
	}

	var count int64
	s.appc.DB().Model(&domain.User{}).Where("email = ?", payload.Email).Count(&count)
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}

	hashed, err := common.HashPassword(payload.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
	}

	user := domain.User{
		Email:         payload.Email,
		Password:      hashed,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Phone:         payload.Phone,
		ReceiveOffers: payload.ReceiveOffers,
		Status:        common.ENABLED,
	}
	if err := s.appc.DB().Create(&user).Error; err != nil {
		zap.L().Error("failed to create user", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
	}

	token, err := s.issueToken(user.ID, ScopeUser, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
	}
	return c.JSON(http.StatusCreated, tokenResponse{Token: token, User: user})
}

func (s *WebServer) handleLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse login")
	}

	var user domain.User
	err := s.appc.DB().
		Where("email = ?", strings.ToLower(strings.TrimSpace(payload.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || !common.CheckPassword(user.Password, payload.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	if !strings.EqualFold(user.Status, common.ENABLED) {
		return echo.NewHTTPError(http.StatusForbidden, "account disabled")
	}

	s.appc.DB().Model(&domain.User{}).Where("id = ?", user.ID).Update("last_login", time.Now())

	token, err := s.issueToken(user.ID, ScopeUser, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, User: user})
}

func (s *WebServer) handleOprLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse login")
	}

	var opr domain.SysOpr
	err := s.appc.DB().
		Where("username = ?", strings.TrimSpace(payload.Username)).
		First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || !common.CheckPassword(opr.Password, payload.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	if !strings.EqualFold(opr.Status, common.ENABLED) {
		return echo.NewHTTPError(http.StatusForbidden, "account disabled")
	}

	s.appc.DB().Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())

	token, err := s.issueToken(opr.ID, ScopeOperator, opr.Level)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, User: opr})
}

func (s *WebServer) handleMe(c echo.Context) error {
	var user domain.User
	if err := s.appc.DB().First(&user, CurrentUserID(c)).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"storefront/models"
)

// ErrTokenRevoked means the signature is fine but the login session no longer exists.
var ErrTokenRevoked = errors.New("token has been revoked")

type Manager struct {
	secret []byte
	ttl    time.Duration
	db     *gorm.DB
}

func NewManager(secret string, ttl time.Duration, db *gorm.DB) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, db: db}
}

// GenerateToken signs a token for the user and records it as a live login session.
func (m *Manager) GenerateToken(userID, role string) (string, error) {
	expTime := time.Now().Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userid": userID,
		"role":   role,
		"exp":    expTime.Unix(),
	})
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	loginToken := models.LoginToken{
		Token:          tokenString,
		ExpirationTime: expTime,
		UserID:         userID,
		Role:           role,
	}
	if err := m.db.Create(&loginToken).Error; err != nil {
		return "", errors.Wrap(err, "store login token")
	}

	return tokenString, nil
}

// VerifyToken checks signature, expiry and that the session was not logged out, then returns the
// user id and role carried by the token.
func (m *Manager) VerifyToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	userID, _ := claims["userid"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}

	var loginToken models.LoginToken
	err = m.db.Where("token = ?", tokenString).First(&loginToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrTokenRevoked
		}
		return "", "", errors.Wrap(err, "look up login token")
	}

	return userID, role, nil
}

// RevokeToken deletes the login session. It reports false when no session matched.
func (m *Manager) RevokeToken(tokenString string) (bool, error) {
	result := m.db.Where("token = ?", tokenString).Delete(&models.LoginToken{})
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "delete login token")
	}
	return result.RowsAffected > 0, nil
}

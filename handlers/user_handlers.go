package handlers

import (
	"net/http"
	"regexp"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/jwt"
	"storefront/middleware"
	"storefront/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

func ValidateUsername(username string) bool {
	if len(username) < 8 || len(username) > 20 {
		return false
	}
	return usernamePattern.MatchString(username)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword requires 8-50 characters mixing upper, lower, digit and symbol, without spaces.
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var (
		isUpper   = false
		isLower   = false
		isNumber  = false
		isSpecial = false
		isSpace   = false
	)

	for _, s := range password {
		switch {
		case unicode.IsSpace(s):
			isSpace = true
		case unicode.IsUpper(s):
			isUpper = true
		case unicode.IsLower(s):
			isLower = true
		case unicode.IsDigit(s):
			isNumber = true
		case unicode.IsPunct(s) || unicode.IsSymbol(s):
			isSpecial = true
		default:
		}
	}

	return isUpper && isLower && isNumber && isSpecial && !isSpace
}

func isUserFieldTaken(db *gorm.DB, field, value string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where(field+" = ?", value).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func RegisterHandler(c *gin.Context, db *gorm.DB) {
	var registerReq struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&registerReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	switch {
	case !ValidateUsername(registerReq.Username):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Registration failed: invalid username"})
		return
	case !ValidateEmail(registerReq.Email):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Registration failed: invalid email"})
		return
	case !ValidatePassword(registerReq.Password):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Registration failed: invalid password"})
		return
	}

	for _, unique := range []struct{ field, value, message string }{
		{"username", registerReq.Username, "Registration failed: username already in use"},
		{"email", registerReq.Email, "Registration failed: email already in use"},
	} {
		taken, err := isUserFieldTaken(db.WithContext(c), unique.field, unique.value)
		if err != nil {
			zap.L().Error("check user uniqueness", zap.String("field", unique.field), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"message": unique.message})
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerReq.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	name := registerReq.Name
	if name == "" {
		name = registerReq.Username
	}
	newUser := models.User{
		Username: registerReq.Username,
		Email:    registerReq.Email,
		Password: string(hashedPassword),
		Name:     name,
		Role:     models.RoleUser,
	}
	if err := db.WithContext(c).Create(&newUser).Error; err != nil {
		zap.L().Error("create user", zap.String("username", newUser.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "User registered successfully",
		"_id":      newUser.ID,
		"username": newUser.Username,
	})
}

// LoginHandler returns the token both in the x-auth-token header and in the body.
func LoginHandler(c *gin.Context, db *gorm.DB, tokens *jwt.Manager) {
	if _, ok := c.Get("UserID"); ok {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged in"})
		return
	}

	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	var user models.User
	err := db.WithContext(c).First(&user, "username = ?", loginReq.Username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username or password"})
			return
		}
		zap.L().Error("find user", zap.String("username", loginReq.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username or password"})
		return
	}

	token, err := tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		zap.L().Error("generate token", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.Header(middleware.TokenHeader, token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"token":   token,
	})
}

func LogOutHandler(c *gin.Context, tokens *jwt.Manager) {
	revoked, err := tokens.RevokeToken(c.GetString("Token"))
	if err != nil {
		zap.L().Error("revoke token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
		return
	}
	if !revoked {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token not found or already logged out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func GetUserProfileHandler(c *gin.Context, db *gorm.DB) {
	var user models.User
	err := db.WithContext(c).First(&user, "id = ?", c.GetString("UserID")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		zap.L().Error("get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"name":     user.Name,
	})
}

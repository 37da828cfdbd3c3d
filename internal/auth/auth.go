// server/internal/auth/auth.go
package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	StaffID string `json:"staffID"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// JWT Generation
var JwtSecret = []byte("YOUR_SUPER_SECRET_KEY")

// SetSecret overrides the signing secret from configuration. Called once at
// startup before any token is issued.
func SetSecret(secret string) {
	if secret != "" {
		JwtSecret = []byte(secret)
	} else if env := os.Getenv("JWT_SECRET"); env != "" {
		JwtSecret = []byte(env)
	}
}

func GenerateJWT(email, role, staffID string, expiration time.Duration) (string, error) {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	expirationTime := time.Now().Add(expiration)
	claims := &JWTClaims{
		Email:   email,
		Role:    role,
		StaffID: staffID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret)
}

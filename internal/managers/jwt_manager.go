package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"adoption-server/internal/schemas"
	"adoption-server/internal/utils"
)

// JWTMgr handles JWT generation, signing, and validation.
type JWTMgr interface {
	GenerateJWT(claims jwt.Claims) (string, error)
	ValidateJWT(tokenString string) (jwt.Claims, error)
	GenerateClaims(userId, username, role string) jwt.Claims
	JWTMiddleware() gin.HandlerFunc
}

// JWTManager is the ed25519-backed implementation of JWTMgr.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewJWTManager creates a new JWTManager with the given key pair.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

// NewJWTManagerFromFile loads the key pair from KEY_PAIR_PATH, generating
// and persisting a new one on first run.
func NewJWTManagerFromFile() (JWTMgr, error) {
	path := os.Getenv("KEY_PAIR_PATH")
	if path == "" {
		path = "keypair.bin"
	}

	privateKey, publicKey, err := loadKeyPair(path)
	if err != nil {
		// No key yet for initial setup, generate a new key pair
		privateKey, publicKey, err = generateKeyPair(path)
		if err != nil {
			return nil, err
		}
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}, nil
}

// GenerateClaims generates the standard JWT claims for a session identity.
func (jm *JWTManager) GenerateClaims(userId, username, role string) jwt.Claims {
	return jwt.MapClaims{
		"iss":      "adoption-server.tech",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
		"sub":      userId,
		"username": username,
		"role":     role,
	}
}

// GenerateJWT generates a new JWT with the given claims.
func (jm *JWTManager) GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT validates the given JWT and returns the claims if valid.
func (jm *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}

// JWTMiddleware extracts and validates the bearer token and stores the
// claims in the request context.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		claims, err := jm.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		c.Set(utils.ClaimsKey.String(), claims)
		c.Next()
	}
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	// Save the new key pair to a file for persistence
	if err = saveKeyPair(privateKey, publicKey, path); err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(privateKey, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

// loadKeyPair loads the key pair from the specified file.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// The key pair is the concatenation of private and public keys
	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	privateKey := ed25519.PrivateKey(keyPairBytes[:ed25519.PrivateKeySize])
	publicKey := ed25519.PublicKey(keyPairBytes[ed25519.PrivateKeySize:])

	return privateKey, publicKey, nil
}

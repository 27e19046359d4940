package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// privateKey and publicKey sign and verify session JWTs. They are generated
// fresh at process start, so sessions do not survive a restart; clients fall
// back to token auth in that case.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// sessionExpireSec is how many seconds until session expiry (0 => never).
	sessionExpireSec int
)

// Init generates the ed25519 key pair and reads TOKEN_EXPIRE_TIME.
func Init() error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return parseExpireTime()
}

func parseExpireTime() error {
	duration := os.Getenv("TOKEN_EXPIRE_TIME")
	if duration == "never" || duration == "0" || duration == "" {
		sessionExpireSec = 0
		return nil
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("failed to parse TOKEN_EXPIRE_TIME: %w", err)
	}
	sessionExpireSec = int(d.Seconds())
	return nil
}

// CreateSessionJWT mints a signed JWT with "sub" = username.
func CreateSessionJWT(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
	}
	if sessionExpireSec > 0 {
		claims["exp"] = time.Now().Add(time.Duration(sessionExpireSec) * time.Second).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// VerifySessionJWT validates a session JWT and returns the username it carries.
func VerifySessionJWT(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid jwt claims")
	}
	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return username, nil
}

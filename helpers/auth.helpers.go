package helpers

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	Errors "errors"
	"os"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

var validUsername = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// MaxPasswordBytes is the longest password bcrypt reads in full
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword past MaxPasswordBytes
var ErrPasswordTooLong = Errors.New("password too long")

// ErrTokenExpired is returned by ParseJWT for a well-formed but expired token
var ErrTokenExpired = Errors.New("token expired")

// JWTKeys signs and parses access tokens
type JWTKeys struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// AccessClaims is what an access token carries
type AccessClaims struct {
	Username  string
	SessionID string
}

// ValidUsername reports whether name is usable as a user name
func ValidUsername(name string) bool {
	return len(name) <= 30 && validUsername.MatchString(name)
}

// HashPassword salts and hashes a password
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares a password against its hash in constant time
func ComparePassword(hash string, password string) bool {
	if len(password) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a jwt token with a claim
func GenerateJWT(keys JWTKeys, claims AccessClaims, ttl time.Duration) (string, error) {
	user := jwt.MapClaims{}
	user["name"] = claims.Username
	user["session_id"] = claims.SessionID
	user["exp"] = time.Now().Add(ttl).Unix()
	jt := jwt.NewWithClaims(jwt.SigningMethodRS256, user)
	return jt.SignedString(keys.Private)
}

// ParseJWT parses a jwt to its claims
func ParseJWT(keys JWTKeys, jwtString string) (AccessClaims, error) {
	token, err := jwt.Parse(jwtString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, Errors.New("unexpected signing method")
		}
		return keys.Public, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if Errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return AccessClaims{}, ErrTokenExpired
		}
		return AccessClaims{}, err
	}
	user, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return AccessClaims{}, Errors.New("invalid claims")
	}
	name, _ := user["name"].(string)
	sessionID, _ := user["session_id"].(string)
	if name == "" {
		return AccessClaims{}, Errors.New("invalid claims")
	}
	return AccessClaims{Username: name, SessionID: sessionID}, nil
}

// LoadJWTKeys reads a PKCS1 private key and its public key from pem files
func LoadJWTKeys(privatePath string, publicPath string) (JWTKeys, error) {

	var keys JWTKeys

	privateStream, err := os.ReadFile(privatePath)
	if err != nil {
		return keys, err
	}
	block, _ := pem.Decode(privateStream)
	if block == nil {
		return keys, Errors.New("jwt private key: no pem block")
	}
	keys.Private, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return keys, err
	}

	publicStream, err := os.ReadFile(publicPath)
	if err != nil {
		return keys, err
	}
	block, _ = pem.Decode(publicStream)
	if block == nil {
		return keys, Errors.New("jwt public key: no pem block")
	}
	keys.Public, err = x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return keys, err
	}

	return keys, nil
}

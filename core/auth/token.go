package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joaobaungartner/goncalves-backend/core/common"
)

// hmacMethods maps the configurable algorithm names onto the HMAC
// signing methods the issuer accepts.
var hmacMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// TokenIssuer creates and validates HMAC-signed access tokens.
type TokenIssuer struct {
	secret        []byte
	method        *jwt.SigningMethodHMAC
	expireMinutes int
}

// NewTokenIssuer builds an issuer over the shared secret. An unknown
// algorithm falls back to HS256, a non-positive expireMinutes to 60.
func NewTokenIssuer(secret, algorithm string, expireMinutes int) *TokenIssuer {
	method, ok := hmacMethods[strings.ToUpper(strings.TrimSpace(algorithm))]
	if !ok {
		method = jwt.SigningMethodHS256
	}
	if expireMinutes <= 0 {
		expireMinutes = 60
	}
	return &TokenIssuer{
		secret:        []byte(secret),
		method:        method,
		expireMinutes: expireMinutes,
	}
}

// Generate creates a signed token with the username as subject.
func (t *TokenIssuer) Generate(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": jwt.NewNumericDate(time.Now().Add(time.Duration(t.expireMinutes) * time.Minute)),
	}

	token := jwt.NewWithClaims(t.method, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	return signed, nil
}

// Parse validates the token signature and expiry and returns the
// subject. Any failure maps to ErrTokenInvalid so handlers answer a
// uniform 401.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{t.method.Alg()}))
	if err != nil || !token.Valid {
		return "", common.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", common.ErrTokenInvalid
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", common.ErrTokenInvalid
	}

	return sub, nil
}

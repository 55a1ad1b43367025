package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/golang-jwt/jwt"
)

const (
	WRITE_CONTACTS_SCOPE = "contacts:write"
	ISSUER               = "addressbook"
)

type AddressBookTokenClaims struct {
	Scope string `json:"scope"`
	jwt.StandardClaims
}

// HasScope reports whether scope is one of the space separated scopes in the claims
func (claims *AddressBookTokenClaims) HasScope(scope string) bool {
	for _, s := range strings.Fields(claims.Scope) {
		if s == scope {
			return true
		}
	}
	return false
}

// NewAccessToken returns a signed token for subject that can write contacts and expires after ttl
func NewAccessToken(subject string, ttl time.Duration, keyPair *key.KeyPair) (string, error) {
	now := time.Now()

	return EncodeJWT(AddressBookTokenClaims{
		Scope: WRITE_CONTACTS_SCOPE,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			Issuer:    ISSUER,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}, keyPair)
}

func EncodeJWT(claims AddressBookTokenClaims, keyPair *key.KeyPair) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod("RS256"), claims)
	token.Header["kid"] = keyPair.Kid

	tokenString, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func DecodeJWT(tokenString string, keyPair *key.KeyPair) (*AddressBookTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AddressBookTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return keyPair.PublicKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid jwt: %v", err)
	}

	tokenClaims, ok := token.Claims.(*AddressBookTokenClaims)
	if !ok {
		return nil, fmt.Errorf("unable to assert token.Claims to AddressBookTokenClaims")
	}

	return tokenClaims, nil
}

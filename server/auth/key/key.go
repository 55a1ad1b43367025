package key

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/golang-jwt/jwt"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwk"
)

const KEY_ID = "addressbook-key-id"

type JWKS struct {
	Keys []interface{} `json:"keys"`
}

type KeyPair struct {
	Kid        string
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

func NewKeyPairFromRSAPrivateKeyPem(privateKeyPem string) (*KeyPair, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPem))
	if err != nil {
		return nil, fmt.Errorf("unable to parse RSA private key: %v", err)
	}

	return &KeyPair{
		Kid:        KEY_ID,
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey}, nil
}

// NewRSAPrivateKeyPem generates a new RSA private key, PKCS #8 PEM encoded
func NewRSAPrivateKeyPem(bits int) (string, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return "", err
	}

	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return "", err
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}

// JWK returns the public half of the key pair as a signing JWK
func (keyPair *KeyPair) JWK() (jwk.Key, error) {
	keyPairJWK, err := jwk.New(keyPair.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("JWK: %v", err)
	}

	for field, value := range map[string]interface{}{
		jwk.KeyIDKey:     keyPair.Kid,
		jwk.AlgorithmKey: jwa.RS256,
		jwk.KeyUsageKey:  string(jwk.ForSignature),
	} {
		if err := keyPairJWK.Set(field, value); err != nil {
			return nil, fmt.Errorf("JWK: %v", err)
		}
	}

	return keyPairJWK, nil
}

func ExportJWKAsJWKS(jwk jwk.Key) JWKS {
	return JWKS{Keys: []interface{}{jwk}}
}

func PublicKeyFromJWK(key jwk.Key) (*rsa.PublicKey, error) {
	var rawKey interface{}

	err := key.Raw(&rawKey)
	if err != nil {
		return nil, err
	}

	switch publicKey := rawKey.(type) {
	case *rsa.PublicKey:
		return publicKey, nil
	case rsa.PublicKey:
		return &publicKey, nil
	default:
		return nil, fmt.Errorf("expected an RSA public key, got %T", rawKey)
	}
}

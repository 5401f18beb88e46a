package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwksServer struct {
	*httptest.Server
	key     *ecdsa.PrivateKey
	kid     string
	fetches atomic.Int32
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	jwk := JWK{
		Kty: "EC",
		Kid: "test-key-1",
		Use: "sig",
		Alg: "ES256",
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(privateKey.PublicKey.X.FillBytes(make([]byte, 32))),
		Y:   base64.RawURLEncoding.EncodeToString(privateKey.PublicKey.Y.FillBytes(make([]byte, 32))),
	}

	s := &jwksServer{key: privateKey, kid: jwk.Kid}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JWK{jwk, {Kty: "RSA", Kid: "ignored"}}})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) token(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = s.kid
	signed, err := token.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

func claimsWith(expiresIn time.Duration, permissions ...string) *Claims {
	return &Claims{
		Sub:   "user-123",
		Email: "test@example.com",
		Role:  "authenticated",
		AppMetadata: AppMetadata{
			Permissions: permissions,
			Role:        "user",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestNewService(t *testing.T) {
	_, err := NewService(Options{})
	assert.ErrorIs(t, err, ErrNotEnabled)

	service, err := NewService(Options{APIToken: "secret"})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, service.cacheDuration)

	service, err = NewService(Options{JWKSURL: "http://invalid.local:1/jwks"})
	require.NoError(t, err, "keys are fetched lazily")
	assert.NotNil(t, service)
}

func TestValidateStaticToken(t *testing.T) {
	service, err := NewService(Options{APIToken: "secret"})
	require.NoError(t, err)

	claims, err := service.ValidateToken("secret")
	require.NoError(t, err)
	assert.Equal(t, "local", claims.Sub)
	assert.True(t, claims.HasPermission(PermissionNotesWrite))

	claims, err = service.ValidateToken("wrong")
	assert.Nil(t, claims)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestValidateJWT(t *testing.T) {
	server := newJWKSServer(t)
	service, err := NewService(Options{JWKSURL: server.URL})
	require.NoError(t, err)

	tests := []struct {
		name    string
		claims  *Claims
		wantErr error
	}{
		{name: "read permission", claims: claimsWith(time.Hour, PermissionNotesRead)},
		{name: "read and write", claims: claimsWith(time.Hour, PermissionNotesRead, PermissionNotesWrite)},
		{name: "no permissions", claims: claimsWith(time.Hour), wantErr: ErrUnauthorized},
		{name: "unrelated permission", claims: claimsWith(time.Hour, "calendar:read"), wantErr: ErrUnauthorized},
		{name: "expired", claims: claimsWith(-time.Hour, PermissionNotesRead), wantErr: ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(server.token(t, tt.claims))
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-123", claims.Sub)
			assert.Equal(t, "test@example.com", claims.Email)
		})
	}

	assert.Equal(t, int32(1), server.fetches.Load(), "the key set is cached")
}

func TestValidateJWTRejectsForeignKeys(t *testing.T) {
	server := newJWKSServer(t)
	other := newJWKSServer(t)
	service, err := NewService(Options{JWKSURL: server.URL})
	require.NoError(t, err)

	claims, err := service.ValidateToken(other.token(t, claimsWith(time.Hour, PermissionNotesRead)))
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)

	claims, err = service.ValidateToken("not.a.jwt")
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestStaticTokenOnlyRejectsJWT(t *testing.T) {
	server := newJWKSServer(t)
	service, err := NewService(Options{APIToken: "secret"})
	require.NoError(t, err)

	_, err = service.ValidateToken(server.token(t, claimsWith(time.Hour, PermissionNotesRead)))
	assert.Equal(t, ErrInvalidToken, err)
}

func TestGetUserInfo(t *testing.T) {
	info := GetUserInfo(claimsWith(time.Hour, PermissionNotesRead))
	assert.Equal(t, "user-123", info.ID)
	assert.Equal(t, []string{PermissionNotesRead}, info.Permissions)
	assert.Equal(t, "user", info.Role)
}

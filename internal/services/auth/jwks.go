package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Permissions granted to API callers
const (
	PermissionNotesRead  = "notes:read"
	PermissionNotesWrite = "notes:write"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrUnauthorized = errors.New("unauthorized - missing required permissions")
	ErrJWKSFetch    = errors.New("failed to fetch JWKS")
	ErrNotEnabled   = errors.New("no API token or JWKS URL configured")
)

// Claims are the JWT claims accepted by the notes API
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`

	AppMetadata AppMetadata `json:"app_metadata"`

	jwt.RegisteredClaims
}

// AppMetadata carries the permissions provisioned for a user
type AppMetadata struct {
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}

func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.AppMetadata.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (c *Claims) HasAnyPermission(permissions ...string) bool {
	for _, permission := range permissions {
		if c.HasPermission(permission) {
			return true
		}
	}
	return false
}

// JWK is a single EC signing key
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// JWKS is a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Options configure the token validator. At least one of APIToken and
// JWKSURL must be set.
type Options struct {
	// APIToken is a static bearer token for local clients and scripts
	APIToken string
	// JWKSURL points at the key set used to verify ES256 tokens
	JWKSURL       string
	CacheDuration time.Duration
	HTTPClient    *http.Client
}

// Service validates bearer tokens for the HTTP API
type Service struct {
	apiToken      string
	jwksURL       string
	cacheDuration time.Duration
	client        *http.Client

	keysMutex sync.RWMutex
	keys      map[string]*ecdsa.PublicKey
	lastFetch time.Time
}

// NewService creates a validator. Keys are fetched on first use.
func NewService(opts Options) (*Service, error) {
	if opts.APIToken == "" && opts.JWKSURL == "" {
		return nil, ErrNotEnabled
	}
	if opts.CacheDuration <= 0 {
		opts.CacheDuration = time.Hour
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{
		apiToken:      opts.APIToken,
		jwksURL:       opts.JWKSURL,
		cacheDuration: opts.CacheDuration,
		client:        opts.HTTPClient,
		keys:          make(map[string]*ecdsa.PublicKey),
	}, nil
}

func (s *Service) fetchJWKS() error {
	resp, err := s.client.Get(s.jwksURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrJWKSFetch, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}

	keys := make(map[string]*ecdsa.PublicKey)
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "EC" || jwk.Alg != "ES256" {
			continue
		}
		pubKey, err := parseECKey(jwk)
		if err != nil {
			logrus.WithError(err).WithField("kid", jwk.Kid).Warn("Skipping unreadable JWK")
			continue
		}
		keys[jwk.Kid] = pubKey
	}

	s.keysMutex.Lock()
	s.keys = keys
	s.lastFetch = time.Now()
	s.keysMutex.Unlock()

	logrus.WithField("keys", len(keys)).Debug("JWKS refreshed")
	return nil
}

func parseECKey(jwk JWK) (*ecdsa.PublicKey, error) {
	xBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode X coordinate: %w", err)
	}
	yBytes, err := base64.RawURLEncoding.DecodeString(jwk.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Y coordinate: %w", err)
	}
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}

// getPublicKey looks up kid, refreshing the key set when it is unknown or stale
func (s *Service) getPublicKey(kid string) (*ecdsa.PublicKey, error) {
	s.keysMutex.RLock()
	key, exists := s.keys[kid]
	stale := time.Since(s.lastFetch) > s.cacheDuration
	s.keysMutex.RUnlock()

	if !exists || stale {
		if err := s.fetchJWKS(); err != nil {
			return nil, err
		}
		s.keysMutex.RLock()
		key, exists = s.keys[kid]
		s.keysMutex.RUnlock()
	}

	if !exists {
		return nil, fmt.Errorf("key with id %s not found", kid)
	}
	return key, nil
}

// ValidateToken accepts the static API token or a signed JWT carrying at
// least one notes permission
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	if s.apiToken != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(s.apiToken)) == 1 {
		return LocalClaims(), nil
	}
	if s.jwksURL == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("no kid found in token header")
		}
		return s.getPublicKey(kid)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		logrus.WithError(err).Debug("Rejected bearer token")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.HasAnyPermission(PermissionNotesRead, PermissionNotesWrite) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// LocalClaims are the claims granted to holders of the static API token
func LocalClaims() *Claims {
	return &Claims{
		Sub:  "local",
		Role: "authenticated",
		AppMetadata: AppMetadata{
			Permissions: []string{PermissionNotesRead, PermissionNotesWrite},
			Role:        "owner",
		},
	}
}

// UserInfo is the public view of a caller
type UserInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email,omitempty"`
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}

func GetUserInfo(claims *Claims) *UserInfo {
	return &UserInfo{
		ID:          claims.Sub,
		Email:       claims.Email,
		Permissions: claims.AppMetadata.Permissions,
		Role:        claims.AppMetadata.Role,
	}
}

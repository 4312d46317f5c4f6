package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// gin 上下文中的身份字段
const (
	ContextKeyUserID         = "user_id"
	ContextKeyOrganizationID = "organization_id"
	ContextKeyRoles          = "roles"
	ContextKeyRegion         = "region"
	ContextKeyUsername       = "username"
)

// KeycloakClaims Keycloak JWT 声明
type KeycloakClaims struct {
	Sub               string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
	OrganizationID    string `json:"organization_id"` // 租户映射器写入的组织 ID
	Region            string `json:"region"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	jwt.RegisteredClaims
}

// KeycloakTokenValidator Keycloak Token 验证器
type KeycloakTokenValidator struct {
	issuer     string
	jwksURL    string
	jwksCache  *sync.Map
	httpClient *http.Client
}

// NewKeycloakTokenValidator 创建 Keycloak Token 验证器
func NewKeycloakTokenValidator(issuer string) *KeycloakTokenValidator {
	return NewKeycloakTokenValidatorWithJWKS(issuer, fmt.Sprintf("%s/protocol/openid-connect/certs", issuer))
}

// NewKeycloakTokenValidatorWithJWKS 使用指定的 JWKS 地址创建验证器
func NewKeycloakTokenValidatorWithJWKS(issuer, jwksURL string) *KeycloakTokenValidator {
	if jwksURL == "" {
		jwksURL = fmt.Sprintf("%s/protocol/openid-connect/certs", issuer)
	}
	return &KeycloakTokenValidator{
		issuer:     issuer,
		jwksURL:    jwksURL,
		jwksCache:  &sync.Map{},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Issuer 返回 Issuer URL
func (v *KeycloakTokenValidator) Issuer() string {
	return v.issuer
}

// ValidateToken 验证 Keycloak JWT Token
func (v *KeycloakTokenValidator) ValidateToken(tokenString string) (*KeycloakClaims, error) {
	claims := &KeycloakClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("missing kid in token header")
		}
		return v.GetPublicKey(kid)
	},
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetPublicKey 获取公钥 (从 JWKS 或缓存)
func (v *KeycloakTokenValidator) GetPublicKey(kid string) (interface{}, error) {
	// 从缓存获取
	if cached, ok := v.jwksCache.Load(kid); ok {
		return cached, nil
	}

	// 从 Keycloak 获取 JWKS
	resp, err := v.httpClient.Get(v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks struct {
		Keys []struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	// 查找匹配的 key
	for _, key := range jwks.Keys {
		if key.Kid != kid || key.Kty != "RSA" {
			continue
		}
		publicKey, err := parseRSAPublicKey(key.N, key.E)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}

		// 缓存公钥
		v.jwksCache.Store(kid, publicKey)
		return publicKey, nil
	}

	return nil, fmt.Errorf("key not found in JWKS: %s", kid)
}

// parseRSAPublicKey 解析 RSA 公钥
func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode n: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode e: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}

// KeycloakAuthMiddleware Keycloak JWT 认证中间件，把调用者身份写入上下文
func KeycloakAuthMiddleware(validator *KeycloakTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header", "")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := validator.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid token", err.Error())
			return
		}
		if claims.OrganizationID == "" {
			abortUnauthorized(c, "invalid token", "missing organization_id claim")
			return
		}

		c.Set(ContextKeyUserID, claims.Sub)
		c.Set(ContextKeyOrganizationID, claims.OrganizationID)
		c.Set(ContextKeyUsername, claims.PreferredUsername)
		c.Set(ContextKeyRoles, claims.RealmAccess.Roles)
		c.Set(ContextKeyRegion, claims.Region)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message, detail string) {
	body := gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	}
	if detail != "" {
		body["detail"] = detail
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}

// Identity 调用者身份
type Identity struct {
	UserID         string
	OrganizationID string
	Roles          []string
	Region         string
}

// Role 返回第一个角色
func (i Identity) Role() string {
	if len(i.Roles) == 0 {
		return ""
	}
	return i.Roles[0]
}

// IdentityFromContext 从 gin 上下文读取身份，缺少用户或组织时返回 false
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	id := Identity{
		UserID:         c.GetString(ContextKeyUserID),
		OrganizationID: c.GetString(ContextKeyOrganizationID),
		Roles:          c.GetStringSlice(ContextKeyRoles),
		Region:         c.GetString(ContextKeyRegion),
	}
	return id, id.UserID != "" && id.OrganizationID != ""
}

// 未启用 Keycloak 时从请求头读取身份，仅用于本地开发
const (
	HeaderOrganizationID = "X-Organization-ID"
	HeaderUserID         = "X-User-ID"
	HeaderUserRole       = "X-User-Role"
	HeaderUserRegion     = "X-User-Region"
)

// HeaderIdentityMiddleware 把开发用请求头写入上下文，缺少的头由控制器按未认证处理
func HeaderIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, c.GetHeader(HeaderUserID))
		c.Set(ContextKeyOrganizationID, c.GetHeader(HeaderOrganizationID))
		if role := c.GetHeader(HeaderUserRole); role != "" {
			c.Set(ContextKeyRoles, []string{role})
		}
		c.Set(ContextKeyRegion, c.GetHeader(HeaderUserRegion))
		c.Next()
	}
}

package claims

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ClaimLinkClaims binds a claim-link token to a single found item.
type ClaimLinkClaims struct {
	ItemID uuid.UUID `json:"item_id"`
	jwt.RegisteredClaims
}

// MintClaimToken issues a signed claim-link JWT for the item using the
// configured TTL.
func MintClaimToken(cfg config.ClaimTokenConfig, now time.Time, itemID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("claim token secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("claim token issuer is required")
	}
	if cfg.TokenTTL <= 0 {
		return "", fmt.Errorf("claim token ttl must be positive")
	}
	if itemID == uuid.Nil {
		return "", fmt.Errorf("item id is required")
	}

	claims := ClaimLinkClaims{
		ItemID: itemID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   itemID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing claim token: %w", err)
	}
	return signed, nil
}

// ParseClaimToken validates the claim-link JWT string and returns typed
// claims.
func ParseClaimToken(cfg config.ClaimTokenConfig, tokenString string) (*ClaimLinkClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("claim token secret is required")
	}

	claims := &ClaimLinkClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.ItemID == uuid.Nil {
		return nil, fmt.Errorf("claim token missing item id")
	}

	return claims, nil
}

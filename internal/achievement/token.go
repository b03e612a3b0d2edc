package achievement

import (
	"errors"
	"fmt"
	"time"

	"wordquiz/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "wordquiz"

// DefaultTTL is how long a learner has to confirm recording an achievement
const DefaultTTL = 24 * time.Hour

// Claims carries an achievement record inside a signed token
type Claims struct {
	Learner       string  `json:"learner"`
	Content       string  `json:"content"`
	Level         string  `json:"level"`
	Goal          string  `json:"goal"`
	FinalAccuracy float64 `json:"final_accuracy"`
	SessionSize   int     `json:"session_size"`
	jwt.RegisteredClaims
}

// Signer issues and verifies achievement tokens so that the record
// confirmed later is exactly the one the engine emitted
type Signer struct {
	hmac []byte
	ttl  time.Duration
	now  func() time.Time
}

// NewSigner creates a signer using an HMAC secret
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{hmac: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns an HS256 token for the record
func (s *Signer) Sign(rec *domain.AchievementRecord) (string, error) {
	claims := &Claims{
		Learner:       rec.Learner,
		Content:       rec.Content,
		Level:         string(rec.Level),
		Goal:          string(rec.Goal),
		FinalAccuracy: rec.FinalAccuracy,
		SessionSize:   rec.SessionSize,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			Issuer:    issuer,
			Subject:   rec.Learner,
			IssuedAt:  jwt.NewNumericDate(rec.AwardedAt),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

// Verify checks the token and returns the record it carries
func (s *Signer) Verify(token string) (*domain.AchievementRecord, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: achievement token is required", domain.ErrValidation)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: achievement token expired", domain.ErrValidation)
		}
		return nil, fmt.Errorf("%w: invalid achievement token: %v", domain.ErrValidation, err)
	}
	if !parsed.Valid || claims.ID == "" || claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: invalid achievement token", domain.ErrValidation)
	}

	return &domain.AchievementRecord{
		ID:            claims.ID,
		Learner:       claims.Learner,
		Content:       claims.Content,
		Level:         domain.Level(claims.Level),
		Goal:          domain.Goal(claims.Goal),
		FinalAccuracy: claims.FinalAccuracy,
		SessionSize:   claims.SessionSize,
		AwardedAt:     claims.IssuedAt.Time.UTC(),
	}, nil
}

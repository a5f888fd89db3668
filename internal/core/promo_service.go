package core

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/store"
)

var (
	ErrPromoInvalid  = errors.New("promo code invalid or expired")
	ErrPromoRedeemed = errors.New("promo code already redeemed")
)

// PromoStore is the slice of the store the promo service needs.
type PromoStore interface {
	GetPromoCode(code string) (*store.PromoCode, error)
	HasRedeemedPromo(codeID, userID string) (bool, error)
	RedeemPromo(codeID, userID string, newUses int) error
	UpdateUserPlan(userID, plan string) error
}

// PromoService applies promo codes: validate, record the redemption, and
// flip the user's plan. Billing proper lives outside this service.
type PromoService struct {
	promos PromoStore
	logger *zap.Logger
	now    func() time.Time
}

func NewPromoService(promos PromoStore, logger *zap.Logger) *PromoService {
	return &PromoService{promos: promos, logger: logger, now: time.Now}
}

// Entitlement is what a successful redemption grants.
type Entitlement struct {
	Plan string `json:"plan"`
	Code string `json:"code"`
}

func (s *PromoService) Apply(userID, code string) (*Entitlement, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrPromoInvalid
	}

	promo, err := s.promos.GetPromoCode(code)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoInvalid
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(s.now()) {
		return nil, ErrPromoInvalid
	}
	if promo.MaxUses > 0 && promo.Uses >= promo.MaxUses {
		return nil, ErrPromoInvalid
	}

	redeemed, err := s.promos.HasRedeemedPromo(promo.ID, userID)
	if err != nil {
		return nil, err
	}
	if redeemed {
		return nil, ErrPromoRedeemed
	}

	if err := s.promos.RedeemPromo(promo.ID, userID, promo.Uses+1); err != nil {
		return nil, err
	}
	if err := s.promos.UpdateUserPlan(userID, promo.Plan); err != nil {
		return nil, err
	}

	s.logger.Info("promo code applied",
		zap.String("user_id", userID),
		zap.String("code", code),
		zap.String("plan", promo.Plan))
	return &Entitlement{Plan: promo.Plan, Code: code}, nil
}

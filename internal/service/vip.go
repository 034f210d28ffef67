package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/domain/coupon"
	"github.com/loomcart/loomcart/internal/domain/order"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

// VIPService decides whether customers qualify for a VIP discount coupon and
// issues tiered coupons to those who do.
type VIPService interface {
	// EvaluateCustomer reports one customer's standing without side effects
	EvaluateCustomer(ctx context.Context, customerID string) (*dto.VIPEligibilityResponse, error)

	// ClaimCoupon re-evaluates the customer and issues one coupon when they
	// pass every gate. Rejections are reported, not raised.
	ClaimCoupon(ctx context.Context, customerID string) (*dto.VIPClaimResponse, error)

	// EvaluateBatch classifies and gates every customer with order history in
	// one pass, issuing coupons to those admitted.
	EvaluateBatch(ctx context.Context) (*dto.VIPBatchResponse, error)
}

type vipService struct {
	ServiceParams
}

// NewVIPService creates a new VIP service
func NewVIPService(params ServiceParams) VIPService {
	return &vipService{ServiceParams: params}
}

// Spending thresholds for tier classification and basic qualification
var (
	spend800  = decimal.NewFromInt(800)
	spend1000 = decimal.NewFromInt(1000)
	spend1200 = decimal.NewFromInt(1200)
	spend1500 = decimal.NewFromInt(1500)
	spend2000 = decimal.NewFromInt(2000)
	avg200    = decimal.NewFromInt(200)
	avg250    = decimal.NewFromInt(250)
	avg300    = decimal.NewFromInt(300)
	avg500    = decimal.NewFromInt(500)
)

// meetsBasicCriteria reports whether the aggregate satisfies at least one of
// the program's qualification profiles.
func meetsBasicCriteria(s *order.SpendingSummary) bool {
	ultraPremium := s.TotalSpent.GreaterThanOrEqual(spend2000) ||
		(s.TotalSpent.GreaterThanOrEqual(spend1500) && s.OrderCount >= 6)

	loyal := s.OrderCount >= 8 &&
		s.TotalSpent.GreaterThanOrEqual(spend1200) &&
		s.AvgOrderValue.GreaterThanOrEqual(avg200)

	highValue := s.AvgOrderValue.GreaterThanOrEqual(avg500) &&
		s.OrderCount >= 4 &&
		s.TotalSpent.GreaterThanOrEqual(spend1000)

	return ultraPremium || loyal || highValue
}

// classifyTier evaluates tiers in descending order of value; the first match
// wins. Customers who only meet the basic criteria land on bronze.
func classifyTier(s *order.SpendingSummary) types.VIPTier {
	if !meetsBasicCriteria(s) {
		return types.VIPTierNone
	}

	switch {
	case s.TotalSpent.GreaterThanOrEqual(spend2000) ||
		(s.OrderCount >= 8 && s.AvgOrderValue.GreaterThanOrEqual(avg300)):
		return types.VIPTierPlatinum
	case s.TotalSpent.GreaterThanOrEqual(spend1200) ||
		(s.OrderCount >= 6 && s.AvgOrderValue.GreaterThanOrEqual(avg250)):
		return types.VIPTierGold
	case s.TotalSpent.GreaterThanOrEqual(spend800) ||
		(s.OrderCount >= 4 && s.AvgOrderValue.GreaterThanOrEqual(avg200)):
		return types.VIPTierSilver
	default:
		return types.VIPTierBronze
	}
}

// selectionWindow buckets evaluations by calendar month so that repeated
// checks inside one window agree with each other.
func selectionWindow(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// sampleUnit maps (customer, window) to a stable point in [0, 1). The
// customer is admitted when the point falls below the configured selection
// rate. Hash-based sampling replaces a per-call random roll so that repeated
// eligibility checks return the same answer within a window.
func sampleUnit(customerID string, window string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(customerID))
	_, _ = h.Write([]byte("|"))
	_, _ = h.Write([]byte(window))
	return float64(h.Sum64()>>11) / float64(uint64(1)<<53)
}

func (s *vipService) selected(customerID string, now time.Time) bool {
	return sampleUnit(customerID, selectionWindow(now)) < s.Config.VIP.SelectionRate
}

// gateOutcome is the result of running one customer through the issuance
// gates. An empty rejection means the customer may be issued a coupon.
type gateOutcome struct {
	tier      types.VIPTier
	rejection types.VIPRejectionReason
	existing  *coupon.Coupon
}

// runGates applies the issuance gates in order: qualification, existing
// active coupon, cooldown, stable selection. The first failure wins.
func (s *vipService) runGates(ctx context.Context, summary *order.SpendingSummary, now time.Time) (gateOutcome, error) {
	tier := classifyTier(summary)
	if tier == types.VIPTierNone {
		return gateOutcome{tier: tier, rejection: types.VIPRejectionNotQualified}, nil
	}

	existing, err := s.CouponRepo.GetActiveVIPCoupon(ctx, summary.CustomerID, now)
	if err != nil && !ierr.IsNotFound(err) {
		return gateOutcome{}, err
	}
	if existing != nil {
		return gateOutcome{tier: tier, rejection: types.VIPRejectionActiveCoupon, existing: existing}, nil
	}

	cooldownStart := now.AddDate(0, -s.Config.VIP.CooldownMonths, 0)
	recent, err := s.CouponRepo.GetLatestVIPCouponSince(ctx, summary.CustomerID, cooldownStart)
	if err != nil && !ierr.IsNotFound(err) {
		return gateOutcome{}, err
	}
	if recent != nil {
		return gateOutcome{tier: tier, rejection: types.VIPRejectionInCooldown}, nil
	}

	if !s.selected(summary.CustomerID, now) {
		return gateOutcome{tier: tier, rejection: types.VIPRejectionNotSelected}, nil
	}

	return gateOutcome{tier: tier}, nil
}

// EvaluateCustomer reports the customer's standing against the program. It
// never writes: checking eligibility must not change the outcome of a later
// claim.
func (s *vipService) EvaluateCustomer(ctx context.Context, customerID string) (*dto.VIPEligibilityResponse, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Please provide a customer id").
			Mark(ierr.ErrValidation)
	}

	summary, err := s.OrderRepo.GetSpendingSummary(ctx, customerID)
	if err != nil {
		return nil, err
	}
	summary.Normalize()

	now := time.Now().UTC()
	outcome, err := s.runGates(ctx, summary, now)
	if err != nil {
		return nil, err
	}

	resp := &dto.VIPEligibilityResponse{
		IsEligible:         outcome.rejection == "",
		MeetsBasicCriteria: outcome.tier != types.VIPTierNone,
		TotalSpent:         summary.TotalSpent,
		OrderCount:         summary.OrderCount,
		AvgOrderValue:      summary.AvgOrderValue,
		Tier:               outcome.tier,
		HasVIPCoupon:       outcome.existing != nil,
		EligibilityReason:  eligibilityReason(outcome),
	}

	return resp, nil
}

func eligibilityReason(outcome gateOutcome) string {
	switch outcome.rejection {
	case types.VIPRejectionNotQualified:
		return "spending history does not meet the program criteria"
	case types.VIPRejectionActiveCoupon:
		return "an active VIP coupon is already on the account"
	case types.VIPRejectionInCooldown:
		return "a VIP coupon was issued within the cooldown window"
	case types.VIPRejectionNotSelected:
		return "not selected in the current evaluation window"
	default:
		return fmt.Sprintf("qualifies for the %s tier", outcome.tier)
	}
}

// ClaimCoupon issues a coupon when every gate passes. Gate failures come
// back as structured rejections; only infrastructure problems are errors.
func (s *vipService) ClaimCoupon(ctx context.Context, customerID string) (*dto.VIPClaimResponse, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Please provide a customer id").
			Mark(ierr.ErrValidation)
	}

	summary, err := s.OrderRepo.GetSpendingSummary(ctx, customerID)
	if err != nil {
		return nil, err
	}
	summary.Normalize()

	now := time.Now().UTC()
	outcome, err := s.runGates(ctx, summary, now)
	if err != nil {
		return nil, err
	}

	if outcome.rejection != "" {
		resp := &dto.VIPClaimResponse{Reason: outcome.rejection}
		if outcome.existing != nil {
			resp.Coupon = dto.NewCouponResponse(outcome.existing)
		}
		return resp, nil
	}

	couponService := NewCouponService(s.ServiceParams)
	issued, err := couponService.IssueVIPCoupon(ctx, customerID, outcome.tier)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("issued vip coupon",
		"customer_id", customerID,
		"tier", outcome.tier,
		"code", issued.Code,
	)

	return &dto.VIPClaimResponse{
		Issued: true,
		Coupon: dto.NewCouponResponse(issued),
	}, nil
}

// EvaluateBatch runs the whole program in one administrative pass. Customer
// aggregation happens in a single grouped query; classification and gating
// fan out across a bounded worker pool.
func (s *vipService) EvaluateBatch(ctx context.Context) (*dto.VIPBatchResponse, error) {
	summaries, err := s.OrderRepo.ListSpendingSummaries(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	couponService := NewCouponService(s.ServiceParams)

	p := pool.NewWithResults[dto.VIPCustomerResult]().
		WithMaxGoroutines(s.Config.VIP.BatchConcurrency).
		WithContext(ctx)

	for _, summary := range summaries {
		summary := summary
		p.Go(func(ctx context.Context) (dto.VIPCustomerResult, error) {
			summary.Normalize()

			outcome, err := s.runGates(ctx, summary, now)
			if err != nil {
				return dto.VIPCustomerResult{}, err
			}

			result := dto.VIPCustomerResult{
				CustomerID: summary.CustomerID,
				Tier:       outcome.tier,
			}

			if outcome.rejection != "" {
				result.Outcome = string(outcome.rejection)
				return result, nil
			}

			issued, err := couponService.IssueVIPCoupon(ctx, summary.CustomerID, outcome.tier)
			if err != nil {
				return dto.VIPCustomerResult{}, err
			}

			result.Outcome = dto.VIPOutcomeCreated
			result.CouponCode = issued.Code
			return result, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	resp := &dto.VIPBatchResponse{Results: results}
	for _, r := range results {
		switch r.Outcome {
		case dto.VIPOutcomeCreated:
			resp.Created++
		case dto.VIPOutcomeNotSelected:
			resp.EligibleNotSelected++
		case dto.VIPOutcomeInCooldown:
			resp.InCooldown++
		case dto.VIPOutcomeActiveCoupon:
			resp.AlreadyHadCoupon++
		case dto.VIPOutcomeNotQualified:
			resp.NotQualified++
		}
	}

	s.Logger.Infow("vip batch evaluation complete",
		"customers", len(summaries),
		"created", resp.Created,
		"eligible_not_selected", resp.EligibleNotSelected,
		"in_cooldown", resp.InCooldown,
	)

	return resp, nil
}

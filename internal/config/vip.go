package config

import "fmt"

// VIPConfig holds the policy levers of the VIP coupon program. The values are
// an injected snapshot: services never consult mutable global state, so
// concurrent evaluations always see a consistent configuration.
type VIPConfig struct {
	// CooldownMonths blocks re-issuance for customers who received a VIP
	// coupon within the window
	CooldownMonths int
	// SelectionRate is the fraction of qualifying customers admitted per
	// evaluation window, in (0, 1]. It limits program size, not eligibility.
	SelectionRate float64
	// CodeInsertRetries bounds regeneration attempts on coupon code
	// uniqueness conflicts
	CodeInsertRetries int
	// BatchConcurrency caps the evaluation fan-out in batch runs
	BatchConcurrency int
}

func (c *VIPConfig) SetDefaults() {
	if c.CooldownMonths == 0 {
		c.CooldownMonths = 3
	}
	if c.SelectionRate == 0 {
		c.SelectionRate = 0.70
	}
	if c.CodeInsertRetries == 0 {
		c.CodeInsertRetries = 3
	}
	if c.BatchConcurrency == 0 {
		c.BatchConcurrency = 8
	}
}

func (c VIPConfig) Validate() error {
	if c.CooldownMonths < 0 {
		return fmt.Errorf("vip: cooldown months must not be negative")
	}
	if c.SelectionRate <= 0 || c.SelectionRate > 1 {
		return fmt.Errorf("vip: selection rate must be in (0, 1]")
	}
	return nil
}

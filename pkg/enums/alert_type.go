package enums

import "fmt"

// BudgetAlertType maps to the budget_alert_type enum in Postgres.
type BudgetAlertType string

const (
	BudgetAlertThresholdWarning BudgetAlertType = "THRESHOLD_WARNING"
	BudgetAlertBudgetExceeded   BudgetAlertType = "BUDGET_EXCEEDED"
)

var validBudgetAlertTypes = []BudgetAlertType{
	BudgetAlertThresholdWarning,
	BudgetAlertBudgetExceeded,
}

// IsValid checks whether the given type matches the canonical enum.
func (b BudgetAlertType) IsValid() bool {
	for _, candidate := range validBudgetAlertTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBudgetAlertType converts raw strings into BudgetAlertType.
func ParseBudgetAlertType(value string) (BudgetAlertType, error) {
	for _, candidate := range validBudgetAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid budget alert type %q", value)
}

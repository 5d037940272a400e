package domain

import (
	"fmt"
	"os"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"gopkg.in/yaml.v3"
)

// ActivityClass is a cash-flow statement activity bucket.
type ActivityClass string

const (
	Operating ActivityClass = "OPERATING"
	Investing ActivityClass = "INVESTING"
	Financing ActivityClass = "FINANCING"
)

// ParseActivityClass converts a string into an ActivityClass.
func ParseActivityClass(s string) (ActivityClass, error) {
	switch ActivityClass(s) {
	case Operating, Investing, Financing:
		return ActivityClass(s), nil
	default:
		return "", fmt.Errorf("%w: unknown activity class %q", apperrors.ErrValidation, s)
	}
}

// CashFlowPolicy is the explicit classification rule for the cash-flow
// statement. Misclassification silently corrupts a regulatory report, so
// the rule is configured, never guessed: counter-account types map to a
// default activity and individual accounts may be overridden by name.
type CashFlowPolicy struct {
	cashAccounts  map[string]struct{}
	typeClasses   map[AccountType]ActivityClass
	nameOverrides map[string]ActivityClass
}

// NewCashFlowPolicy builds a policy over the designated cash/bank accounts
// with the conventional type defaults: revenue and expense counterparts are
// operating, non-cash assets investing, liabilities and equity financing.
func NewCashFlowPolicy(cashAccountNames []string) *CashFlowPolicy {
	p := &CashFlowPolicy{
		cashAccounts: make(map[string]struct{}, len(cashAccountNames)),
		typeClasses: map[AccountType]ActivityClass{
			Revenue:   Operating,
			Expense:   Operating,
			Asset:     Investing,
			Liability: Financing,
			Equity:    Financing,
		},
		nameOverrides: map[string]ActivityClass{},
	}
	for _, name := range cashAccountNames {
		p.cashAccounts[name] = struct{}{}
	}
	return p
}

// CashAccountNames returns the designated cash accounts.
func (p *CashFlowPolicy) CashAccountNames() []string {
	names := make([]string, 0, len(p.cashAccounts))
	for name := range p.cashAccounts {
		names = append(names, name)
	}
	return names
}

// IsCashAccount reports whether the named account is a designated cash
// account.
func (p *CashFlowPolicy) IsCashAccount(name string) bool {
	_, ok := p.cashAccounts[name]
	return ok
}

// Override pins a specific counter-account to an activity class regardless
// of its type.
func (p *CashFlowPolicy) Override(accountName string, class ActivityClass) {
	p.nameOverrides[accountName] = class
}

// Classify returns the activity class for a counter-account. Name overrides
// win over the type default.
func (p *CashFlowPolicy) Classify(accountName string, accountType AccountType) ActivityClass {
	if class, ok := p.nameOverrides[accountName]; ok {
		return class
	}
	if class, ok := p.typeClasses[accountType]; ok {
		return class
	}
	return Operating
}

// cashFlowRulesFile is the YAML shape of an external rules file.
type cashFlowRulesFile struct {
	CashAccounts []string          `yaml:"cash_accounts"`
	Accounts     map[string]string `yaml:"accounts"`
}

// LoadCashFlowRules reads a YAML rules file and applies it on top of the
// policy: extra cash accounts and per-account activity overrides.
func (p *CashFlowPolicy) LoadCashFlowRules(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cash-flow rules file %s: %w", path, err)
	}
	var rules cashFlowRulesFile
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return fmt.Errorf("failed to parse cash-flow rules file %s: %w", path, err)
	}
	for _, name := range rules.CashAccounts {
		p.cashAccounts[name] = struct{}{}
	}
	for name, classStr := range rules.Accounts {
		class, err := ParseActivityClass(classStr)
		if err != nil {
			return fmt.Errorf("invalid activity class for account %s in %s: %w", name, path, err)
		}
		p.nameOverrides[name] = class
	}
	return nil
}

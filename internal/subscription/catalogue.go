package subscription

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var defaultPlans []byte

var ErrUnknownPlan = errors.New("unknown plan")

// Catalogue is the ordered set of plans users can pick from.
type Catalogue struct {
	plans  []Plan
	byCode map[string]Plan
}

type catalogueFile struct {
	Plans []Plan `yaml:"plans"`
}

// LoadCatalogue parses a YAML plan list.
func LoadCatalogue(data []byte) (*Catalogue, error) {
	var f catalogueFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}
	if len(f.Plans) == 0 {
		return nil, errors.New("plan catalogue is empty")
	}

	c := &Catalogue{byCode: make(map[string]Plan, len(f.Plans))}
	for _, p := range f.Plans {
		if p.Code == "" {
			return nil, errors.New("plan without code")
		}
		if _, dup := c.byCode[p.Code]; dup {
			return nil, fmt.Errorf("duplicate plan %q", p.Code)
		}
		if p.MaxStaff < 0 || p.MaxTiers < 0 || p.TrialDays < 0 || p.PriceCents < 0 {
			return nil, fmt.Errorf("plan %q has negative limits", p.Code)
		}
		c.plans = append(c.plans, p)
		c.byCode[p.Code] = p
	}
	return c, nil
}

// DefaultCatalogue is the catalogue shipped with the binary.
func DefaultCatalogue() (*Catalogue, error) {
	return LoadCatalogue(defaultPlans)
}

func (c *Catalogue) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

func (c *Catalogue) Get(code string) (Plan, error) {
	p, ok := c.byCode[code]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return p, nil
}

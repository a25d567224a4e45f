package promo

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
)

const bloomFPR = 0.001

var _ Repository = (*TableRepository)(nil)

// TableRepository is an in-memory Repository over a fixed promo rule table.
// A bloom filter fronts the map so that the hot path for mistyped codes
// rejects without touching the table at all.
type TableRepository struct {
	rules  map[string]Rule
	filter *bloom.BloomFilter
}

// NewTableRepository builds a repository from the given rules. Codes are
// normalized to upper case.
func NewTableRepository(rules []Rule) *TableRepository {
	n := uint(len(rules))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, bloomFPR)
	byCode := make(map[string]Rule, len(rules))
	for _, r := range rules {
		code := strings.ToUpper(r.Code)
		r.Code = code
		byCode[code] = r
		filter.AddString(code)
	}
	return &TableRepository{rules: byCode, filter: filter}
}

// LoadRules parses a JSON array of promo rules into a TableRepository.
func LoadRules(data []byte) (*TableRepository, error) {
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, errors.Wrap(err, "parse promo rules")
	}
	return NewTableRepository(rules), nil
}

// FindByCode looks up a rule by code, case-insensitively.
// Returns ErrInvalidCode when no rule exists for the code.
func (r *TableRepository) FindByCode(_ context.Context, code string) (*Rule, error) {
	code = strings.ToUpper(code)
	if !r.filter.TestString(code) {
		return nil, ErrInvalidCode
	}
	rule, ok := r.rules[code]
	if !ok {
		return nil, ErrInvalidCode
	}
	return &rule, nil
}

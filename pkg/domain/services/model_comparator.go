package services

import (
	"regexp"
	"strconv"
	"strings"
)

// Variant names recognised by the Apple comparator
const (
	VariantMini     = "Mini"
	VariantStandard = "Standard"
	VariantPlus     = "Plus"
	VariantPro      = "Pro"
	VariantProMax   = "Pro Max"
)

// unknownGeneration sorts models without a generation number last
const unknownGeneration = 999

// DefaultVariantOrder is the display rank of each variant
func DefaultVariantOrder() map[string]int {
	return map[string]int{
		VariantMini:     1,
		VariantStandard: 2,
		VariantPlus:     3,
		VariantPro:      4,
		VariantProMax:   5,
	}
}

// AppleModelComparator orders iPhone model names by generation, then by
// variant rank (Mini, Standard, Plus, Pro, Pro Max)
type AppleModelComparator struct {
	generationPattern *regexp.Regexp
	variantOrder      map[string]int
}

// NewAppleModelComparator creates a comparator; a nil order uses DefaultVariantOrder
func NewAppleModelComparator(variantOrder map[string]int) *AppleModelComparator {
	if variantOrder == nil {
		variantOrder = DefaultVariantOrder()
	}
	return &AppleModelComparator{
		generationPattern: regexp.MustCompile(`iPhone (\d+)`),
		variantOrder:      variantOrder,
	}
}

// Compare returns -1, 0 or 1. Models of equal generation and variant
// compare equal so that a stable sort keeps their input order.
func (c *AppleModelComparator) Compare(a, b string) int {
	genA, genB := c.Generation(a), c.Generation(b)
	if genA != genB {
		if genA < genB {
			return -1
		}
		return 1
	}

	rankA, rankB := c.variantRank(a), c.variantRank(b)
	switch {
	case rankA < rankB:
		return -1
	case rankA > rankB:
		return 1
	default:
		return 0
	}
}

// Generation extracts the numeric generation from a model name
func (c *AppleModelComparator) Generation(model string) int {
	match := c.generationPattern.FindStringSubmatch(model)
	if match == nil {
		return unknownGeneration
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return unknownGeneration
	}
	return n
}

// Variant classifies a model name. "Pro Max" is checked before "Plus" and
// "Pro" since it contains the latter.
func (c *AppleModelComparator) Variant(model string) string {
	switch {
	case strings.Contains(model, VariantMini):
		return VariantMini
	case strings.Contains(model, VariantProMax):
		return VariantProMax
	case strings.Contains(model, VariantPlus):
		return VariantPlus
	case strings.Contains(model, VariantPro):
		return VariantPro
	default:
		return VariantStandard
	}
}

func (c *AppleModelComparator) variantRank(model string) int {
	return c.variantOrder[c.Variant(model)]
}

package model

import (
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Taxonomy is the configurable vocabulary of the register: risk owners,
// use case business areas, AI categories and statuses. Risk and control
// categories are fixed enumerations and not part of this.
type Taxonomy struct {
	Owners        []string `toml:"owners"`
	BusinessAreas []string `toml:"business_areas"`
	AICategories  []string `toml:"ai_categories"`
	Statuses      []string `toml:"statuses"`
}

// DefaultTaxonomy returns the built-in vocabulary.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Owners: []string{
			"AI Leader", "Compliance", "Ethics Board", "Finance", "HR", "IP",
			"IT", "IT Leader", "IT Security", "LOB", "LOBs", "Legal",
			"Privacy", "Process Owner", "Quality",
		},
		BusinessAreas: []string{
			"General", "Medical", "R&D", "Commercial", "Manufacturing",
			"Pharmacovigilance", "Legal", "Clinical", "Quality Management",
			"Supply Chain", "Finance",
		},
		AICategories: []string{
			"Content Generation", "Data Analysis", "Image Analysis",
			"Natural Language Processing", "Speech Recognition",
			"Machine Learning", "Computer Vision", "Predictive Analytics",
			"Process Automation", "Decision Support",
		},
		Statuses: []string{
			"Concept", "Under Review", "Approved", "In Development",
			"Pilot", "In Production", "On Hold", "Cancelled",
		},
	}
}

// Validate checks the taxonomy for empty or duplicate entries.
func (t *Taxonomy) Validate() error {
	for name, list := range map[string][]string{
		"owners":         t.Owners,
		"business_areas": t.BusinessAreas,
		"ai_categories":  t.AICategories,
		"statuses":       t.Statuses,
	} {
		seen := make(map[string]bool, len(list))
		for _, v := range list {
			if strings.TrimSpace(v) == "" {
				return goerr.New("taxonomy entries cannot be empty", goerr.V("list", name))
			}
			if seen[v] {
				return goerr.New("duplicate taxonomy entry", goerr.V("list", name), goerr.V("entry", v))
			}
			seen[v] = true
		}
	}
	return nil
}

// HasOwner reports whether the owner is in the vocabulary
// (case-insensitive, matching the filter semantics).
func (t *Taxonomy) HasOwner(owner string) bool {
	return slices.ContainsFunc(t.Owners, func(v string) bool {
		return strings.EqualFold(v, owner)
	})
}

// HasStatus reports whether the status is in the vocabulary.
func (t *Taxonomy) HasStatus(status string) bool {
	return slices.Contains(t.Statuses, status)
}

// HasBusinessArea reports whether the business area is in the vocabulary.
func (t *Taxonomy) HasBusinessArea(area string) bool {
	return slices.Contains(t.BusinessAreas, area)
}

// HasAICategory reports whether the AI category is in the vocabulary.
func (t *Taxonomy) HasAICategory(category string) bool {
	return slices.Contains(t.AICategories, category)
}

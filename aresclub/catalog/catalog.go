// Package catalog serves the fixed lookup tables shown on the landing page.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

type Game struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Provider    string `json:"provider" yaml:"provider"`
	Image       string `json:"image" yaml:"image"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

type Promotion struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Percentage  *int   `json:"percentage,omitempty" yaml:"percentage"`
	Active      bool   `json:"active" yaml:"active"`
}

type PaymentMethod struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Icon  string `json:"icon" yaml:"icon"`
	Image string `json:"image" yaml:"image"`
}

type FAQEntry struct {
	ID       int    `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category" yaml:"category"`
}

type Catalog struct {
	Games          []Game          `yaml:"games"`
	Promotions     []Promotion     `yaml:"promotions"`
	PaymentMethods []PaymentMethod `yaml:"payment_methods"`
	FAQ            []FAQEntry      `yaml:"faq"`
}

// Default parses the embedded catalog document.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

func Parse(doc []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := map[int]bool{}
	for _, g := range c.Games {
		if seen[g.ID] {
			return fmt.Errorf("duplicate game id %d", g.ID)
		}
		seen[g.ID] = true
	}
	seen = map[int]bool{}
	for _, p := range c.Promotions {
		if seen[p.ID] {
			return fmt.Errorf("duplicate promotion id %d", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (c *Catalog) Game(id int) (Game, bool) {
	for _, g := range c.Games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// Promotion looks up any promotion, active or not.
func (c *Catalog) Promotion(id int) (Promotion, bool) {
	for _, p := range c.Promotions {
		if p.ID == id {
			return p, true
		}
	}
	return Promotion{}, false
}

func (c *Catalog) ActivePromotions() []Promotion {
	out := make([]Promotion, 0, len(c.Promotions))
	for _, p := range c.Promotions {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

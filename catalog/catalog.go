// Package catalog holds the marketing copy rendered by the static pages:
// company facts, product features, pricing tiers and legal text. The data
// ships inside the binary as YAML.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

type Company struct {
	Name           string   `yaml:"name"`
	Domain         string   `yaml:"domain"`
	Tagline        string   `yaml:"tagline"`
	Headline       string   `yaml:"headline"`
	HeadlineAccent string   `yaml:"headline_accent"`
	Summary        string   `yaml:"summary"`
	Highlights     []string `yaml:"highlights"`
}

type Links struct {
	Community string `yaml:"community"`
	Register  string `yaml:"register"`
	Login     string `yaml:"login"`
}

type Contact struct {
	Sales   string `yaml:"sales"`
	Support string `yaml:"support"`
	Legal   string `yaml:"legal"`
}

// Item is a titled blurb: a how-it-works step or a company value.
type Item struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Testimonial struct {
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Quote  string `yaml:"quote"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

type Feature struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Image       string   `yaml:"image"`
	Benefits    []string `yaml:"benefits"`
}

// PricingTier is one plan on the pricing page. Highlighted marks the
// recommended plan.
type PricingTier struct {
	Name        string   `yaml:"name"`
	Price       string   `yaml:"price"`
	PriceDetail string   `yaml:"price_detail"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	CTA         string   `yaml:"cta"`
	Highlighted bool     `yaml:"highlighted"`
}

type Person struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type Section struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
}

type Legal struct {
	Updated string    `yaml:"updated"`
	Terms   []Section `yaml:"terms"`
	Privacy []Section `yaml:"privacy"`
}

// Catalog is the full set of site copy.
type Catalog struct {
	Company     Company       `yaml:"company"`
	Links       Links         `yaml:"links"`
	Contact     Contact       `yaml:"contact"`
	Steps       []Item        `yaml:"steps"`
	Testimonial Testimonial   `yaml:"testimonial"`
	Features    []Feature     `yaml:"features"`
	Pricing     []PricingTier `yaml:"pricing"`
	Values      []Item        `yaml:"values"`
	Team        []Person      `yaml:"team"`
	Legal       Legal         `yaml:"legal"`
}

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("catalog: invalid")

// Default returns the catalog compiled into the binary. It panics if the
// embedded YAML is broken, which the package tests guard against.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Load decodes and validates a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields the pages cannot render without.
func (c *Catalog) Validate() error {
	if c.Company.Name == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalid)
	}
	highlighted := 0
	for i, t := range c.Pricing {
		if t.Name == "" || t.Price == "" {
			return fmt.Errorf("%w: pricing tier %d needs name and price", ErrInvalid, i)
		}
		if t.Highlighted {
			highlighted++
		}
	}
	if highlighted > 1 {
		return fmt.Errorf("%w: %d pricing tiers highlighted, want at most 1", ErrInvalid, highlighted)
	}
	for i, f := range c.Features {
		if f.Title == "" {
			return fmt.Errorf("%w: feature %d has no title", ErrInvalid, i)
		}
	}
	return nil
}

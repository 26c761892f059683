// Package routes classifies request paths into the three authorization
// classes. Classification is an explicit enumerated table evaluated in a
// fixed precedence order, independent of any web framework:
//
//  1. the enumerated public rules (exact match, then prefix), in order
//  2. any path containing an /admin segment is ShopAdmin
//  3. any other single-segment path is a public storefront page
//  4. everything else requires an authenticated session
package routes

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Classification of a request path.
type Classification int

const (
	Public Classification = iota
	AuthenticatedOnly
	ShopAdmin
)

func (c Classification) String() string {
	switch c {
	case Public:
		return "public"
	case AuthenticatedOnly:
		return "authenticated"
	case ShopAdmin:
		return "admin"
	}
	return "unknown"
}

// Route is the classification result. For ShopAdmin, Slug is the shop
// addressed by the path; BareAdmin marks /admin paths with no slug, which
// redirect the caller to their own shop.
type Route struct {
	Class     Classification
	Slug      string
	BareAdmin bool
}

// Rule is one enumerated entry. Match is "exact" or "prefix".
type Rule struct {
	Match string `yaml:"match"`
	Path  string `yaml:"path"`
}

// Table is the classification table.
type Table struct {
	public []Rule
}

// Default returns the built-in table: root, login, register, API paths and
// asset paths are public.
func Default() *Table {
	return &Table{public: []Rule{
		{Match: "exact", Path: "/"},
		{Match: "exact", Path: "/login"},
		{Match: "exact", Path: "/register"},
		{Match: "exact", Path: "/healthz"},
		{Match: "exact", Path: "/metrics"},
		{Match: "exact", Path: "/favicon.ico"},
		{Match: "prefix", Path: "/api/"},
		{Match: "prefix", Path: "/_next/"},
	}}
}

// Load reads a table override from a YAML file:
//
//	public:
//	  - {match: exact, path: /}
//	  - {match: prefix, path: /api/}
func Load(file string) (*Table, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Public []Rule `yaml:"public"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &Table{public: doc.Public}, nil
}

// Classify maps a path to its authorization class.
func (t *Table) Classify(path string) Route {
	for _, r := range t.public {
		switch r.Match {
		case "exact":
			if path == r.Path {
				return Route{Class: Public}
			}
		case "prefix":
			if strings.HasPrefix(path, r.Path) {
				return Route{Class: Public}
			}
		}
	}

	segs := segments(path)
	for i, s := range segs {
		if s == "admin" {
			if i == 0 {
				return Route{Class: ShopAdmin, BareAdmin: true}
			}
			return Route{Class: ShopAdmin, Slug: segs[i-1]}
		}
	}

	if len(segs) == 1 {
		return Route{Class: Public}
	}
	return Route{Class: AuthenticatedOnly}
}

func segments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

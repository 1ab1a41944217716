// Package permissions holds the coarse role table for HTTP routes. Fine
// grained ownership checks live in internal/policy.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var embedded []byte

// Rule lists the roles allowed on one route pattern. An empty role list
// admits any authenticated caller. Skip marks a public route.
type Rule struct {
	Roles  []string `json:"permissions"`
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Skip   bool     `json:"skip"`
}

func (r Rule) Allows(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// Table is the decoded permissions.json. Skip at the top level opens every
// route.
type Table struct {
	Endpoints []Rule `json:"endpoints"`
	Skip      bool   `json:"skip"`

	index map[string]Rule
}

// Lookup returns the rule for a chi route pattern. Unlisted routes yield the
// zero Rule, which requires authentication.
func (t *Table) Lookup(pattern, method string) Rule {
	return t.index[method+" "+pattern]
}

func Parse(data []byte) (*Table, error) {
	table := Table{}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err //nolint:wrapcheck
	}

	table.index = make(map[string]Rule, len(table.Endpoints))

	for _, rule := range table.Endpoints {
		key := rule.Method + " " + rule.Path
		if _, dup := table.index[key]; dup {
			log.Warn().Str("route", key).Msg("Duplicate permission entry, keeping the first")

			continue
		}

		table.index[key] = rule
	}

	return &table, nil
}

// Get decodes the embedded table. A broken table yields nil, which the RBAC
// middleware treats as deny all.
func Get() *Table {
	table, err := Parse(embedded)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(table.Endpoints)).Msg("Loaded embedded permissions")

	return table
}

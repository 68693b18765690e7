// Package aliases holds the learned item-alias table in memory and answers
// lookups against cleaned order-line names. The whole table is small (tens of
// thousands of rows at most), so a periodic full reload beats row-level cache
// invalidation.
package aliases

import (
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Cache is one immutable snapshot of the alias table, pre-normalized for
// lookup. Built by BuildCache, never mutated afterwards; the Store swaps whole
// snapshots. Keys use the folded form, so composed and decomposed Hangul
// spellings of the same alias compare equal.
type Cache struct {
	exact   map[string][]indexed
	reverse map[string][]string // item_no → learned alias texts
	ordered []indexed           // contains-scan order: longest folded form first
}

type indexed struct {
	folded string
	alias  models.ItemAlias
}

// Specific reports whether an alias is precise enough to hard-confirm on a
// substring hit: three or more tokens, or a tight form of twelve or more
// characters. Recomputed at lookup time so the definition can change without
// touching stored rows.
func Specific(alias string) bool {
	if len(normalizers.Tokens(alias)) >= 3 {
		return true
	}
	return len([]rune(normalizers.Tight(alias))) >= 12
}

// BuildCache pre-normalizes alias rows into a lookup snapshot.
func BuildCache(rows []models.ItemAlias) *Cache {
	c := &Cache{
		exact:   make(map[string][]indexed, len(rows)),
		reverse: make(map[string][]string),
	}
	for _, row := range rows {
		folded := normalizers.Fold(row.Alias)
		if folded == "" {
			continue
		}
		e := indexed{folded: folded, alias: row}
		c.exact[folded] = append(c.exact[folded], e)
		c.ordered = append(c.ordered, e)
		c.reverse[row.ItemNo] = append(c.reverse[row.ItemNo], row.Alias)
	}
	// Longest alias first, so the most specific substring hit wins the scan.
	sortByFoldedLenDesc(c.ordered)
	return c
}

// Lookup finds the best learned match for a cleaned input name. Precedence:
// exact folded equality, then the longest contains hit from a specific alias,
// then the longest contains hit from a weak alias. Client-scoped aliases only
// apply to their own client; a client hit outranks a global hit of the same
// class.
func (c *Cache) Lookup(input, clientCode string) *models.LearnedMatch {
	folded := normalizers.Fold(input)
	if folded == "" {
		return nil
	}

	if e, ok := c.pickScoped(c.exact[folded], clientCode); ok {
		return match(e, models.AliasClassExact)
	}

	var weak *models.LearnedMatch
	var weakScoped bool
	for _, e := range c.ordered {
		if !e.appliesTo(clientCode) || !strings.Contains(folded, e.folded) {
			continue
		}
		if Specific(e.alias.Alias) {
			return match(e, models.AliasClassContainsSpecific)
		}
		if scoped := e.alias.ClientCode != nil; weak == nil || (scoped && !weakScoped) {
			weak = match(e, models.AliasClassContainsWeak)
			weakScoped = scoped
		}
	}
	return weak
}

// WeakHits returns every weak contains match for the input, one per item.
// These never confirm on their own; they feed the score bonus.
func (c *Cache) WeakHits(input, clientCode string) []models.LearnedMatch {
	folded := normalizers.Fold(input)
	if folded == "" {
		return nil
	}

	var out []models.LearnedMatch
	seen := make(map[string]bool)
	for _, e := range c.ordered {
		if !e.appliesTo(clientCode) || Specific(e.alias.Alias) {
			continue
		}
		if !strings.Contains(folded, e.folded) || seen[e.alias.ItemNo] {
			continue
		}
		seen[e.alias.ItemNo] = true
		out = append(out, *match(e, models.AliasClassContainsWeak))
	}
	return out
}

// AliasesFor returns every learned alias text for an item, for expanding a
// canonical term back into its known abbreviations.
func (c *Cache) AliasesFor(itemNo string) []string {
	return c.reverse[itemNo]
}

// Size returns the number of indexed aliases.
func (c *Cache) Size() int {
	return len(c.ordered)
}

func (c *Cache) pickScoped(entries []indexed, clientCode string) (indexed, bool) {
	var global indexed
	var found bool
	for _, e := range entries {
		if !e.appliesTo(clientCode) {
			continue
		}
		if e.alias.ClientCode != nil {
			return e, true
		}
		if !found {
			global, found = e, true
		}
	}
	return global, found
}

func (e indexed) appliesTo(clientCode string) bool {
	return e.alias.ClientCode == nil || *e.alias.ClientCode == clientCode
}

func match(e indexed, class models.AliasClass) *models.LearnedMatch {
	return &models.LearnedMatch{
		Alias:    e.alias.Alias,
		ItemNo:   e.alias.ItemNo,
		ItemName: e.alias.ItemName,
		Class:    class,
	}
}

func sortByFoldedLenDesc(entries []indexed) {
	// Stable sort keeps equal-length aliases in load order.
	sort.SliceStable(entries, func(i, j int) bool {
		return len([]rune(entries[i].folded)) > len([]rune(entries[j].folded))
	})
}

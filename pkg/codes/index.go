package codes

// Entry is one catalog item reachable through its code.
type Entry struct {
	ItemNo    string
	ItemName  string
	InHistory bool
}

// Index answers exact-code and prefix lookups over a set of items. Built fresh
// per resolution from the client's history plus the glass catalog; small enough
// that rebuilding beats invalidation.
type Index struct {
	byCode   map[string][]Entry
	byPrefix map[string][]Entry
}

// NewIndex returns an empty code index.
func NewIndex() *Index {
	return &Index{
		byCode:   make(map[string][]Entry),
		byPrefix: make(map[string][]Entry),
	}
}

// Add indexes an item under its code. Items whose number is not code-shaped
// are ignored. Re-adding an item merges the history flag instead of
// duplicating the entry.
func (i *Index) Add(itemNo, itemName string, inHistory bool) {
	c, ok := Parse(itemNo)
	if !ok {
		return
	}
	key := c.String()
	for n, e := range i.byCode[key] {
		if e.ItemNo == itemNo {
			if inHistory && !e.InHistory {
				i.byCode[key][n].InHistory = true
				i.markPrefix(c.Prefix, itemNo)
			}
			return
		}
	}
	entry := Entry{ItemNo: itemNo, ItemName: itemName, InHistory: inHistory}
	i.byCode[key] = append(i.byCode[key], entry)
	i.byPrefix[c.Prefix] = append(i.byPrefix[c.Prefix], entry)
}

// Find returns the items matching a raw code token exactly, after
// canonicalization.
func (i *Index) Find(token string) []Entry {
	key := Normalize(token)
	if key == "" {
		return nil
	}
	return i.byCode[key]
}

// FindByPrefix returns every item sharing the given product-family prefix.
// Three-digit prefixes are zero-padded before lookup.
func (i *Index) FindByPrefix(prefix string) []Entry {
	if len(prefix) == 3 {
		prefix = "0" + prefix
	}
	return i.byPrefix[prefix]
}

func (i *Index) markPrefix(prefix, itemNo string) {
	for n, e := range i.byPrefix[prefix] {
		if e.ItemNo == itemNo {
			i.byPrefix[prefix][n].InHistory = true
			return
		}
	}
}

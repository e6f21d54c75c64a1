package types

import (
	"iter"
	"slices"
	"strings"
)

// Comment is a single key=value entry of a comment header.
type Comment struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Comments is a vendor string plus an ordered list of comments.
//
// Order is preserved and duplicate keys are allowed, so multi-valued
// tags such as several ARTIST entries round-trip unchanged. Lookups
// compare keys case-insensitively; keys added through Add and AddAll are
// stored lowercase, keys loaded with FromEntries are kept verbatim.
//
// The zero value is an empty set with an empty vendor.
type Comments struct {
	vendor  string
	entries []Comment
}

// NewComments returns an empty set with the given vendor string.
func NewComments(vendor string) *Comments {
	return &Comments{vendor: vendor}
}

// FromEntries builds a set from already decoded entries.
//
// Keys are stored exactly as given. The entries slice is copied.
func FromEntries(vendor string, entries []Comment) *Comments {
	return &Comments{
		vendor:  vendor,
		entries: slices.Clone(entries),
	}
}

// Vendor returns the vendor string.
func (c *Comments) Vendor() string {
	return c.vendor
}

// SetVendor replaces the vendor string.
func (c *Comments) SetVendor(vendor string) {
	c.vendor = vendor
}

// Len returns the number of entries, counting duplicates.
func (c *Comments) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in stored order.
func (c *Comments) Entries() []Comment {
	return slices.Clone(c.entries)
}

// All returns an iterator over all entries in stored order.
//
// Example:
//
//	for key, value := range comments.All() {
//		fmt.Printf("%s=%s\n", key, value)
//	}
func (c *Comments) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range c.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Names returns the distinct keys, lowercased and sorted.
func (c *Comments) Names() []string {
	names := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		names = append(names, strings.ToLower(e.Key))
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Get returns all values whose key matches case-insensitively, in
// stored order. Returns an empty slice if there are none.
//
// Example:
//
//	artists := comments.Get("ARTIST") // same as Get("artist")
func (c *Comments) Get(key string) []string {
	values := []string{}
	for _, e := range c.entries {
		if strings.EqualFold(e.Key, key) {
			values = append(values, e.Value)
		}
	}
	return values
}

// Lookup returns the first value whose key matches case-insensitively.
// The boolean is false if no entry matches.
func (c *Comments) Lookup(key string) (string, bool) {
	for _, e := range c.entries {
		if strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}
	return "", false
}

// GetFirst returns the first value for key, or "" if there is none.
//
// Use Lookup to tell a missing tag apart from an empty value.
func (c *Comments) GetFirst(key string) string {
	value, _ := c.Lookup(key)
	return value
}

// Clear removes every entry whose key matches case-insensitively.
func (c *Comments) Clear(key string) {
	c.entries = slices.DeleteFunc(c.entries, func(e Comment) bool {
		return strings.EqualFold(e.Key, key)
	})
}

// ClearAll removes every entry. The vendor is kept.
func (c *Comments) ClearAll() {
	c.entries = nil
}

// Add appends one entry. The key is lowercased; the value is kept as is.
// Existing entries with the same key are left in place.
func (c *Comments) Add(key, value string) {
	c.entries = append(c.entries, Comment{Key: strings.ToLower(key), Value: value})
}

// AddAll appends one entry per value, all under the same lowercased key.
//
// Example:
//
//	comments.AddAll("genre", "Rock", "Alternative")
func (c *Comments) AddAll(key string, values ...string) {
	key = strings.ToLower(key)
	for _, v := range values {
		c.entries = append(c.entries, Comment{Key: key, Value: v})
	}
}

// Clone returns a deep copy.
func (c *Comments) Clone() *Comments {
	if c == nil {
		return nil
	}
	return FromEntries(c.vendor, c.entries)
}

// Equal reports whether both sets have the same vendor and the same
// entries in the same order. Keys are compared exactly.
func (c *Comments) Equal(other *Comments) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.vendor == other.vendor && slices.Equal(c.entries, other.entries)
}

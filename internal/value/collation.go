package value

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collation.go backs spec §3.2's documented exception to byte-wise string
// ordering: "`sort`, `sort_by`, `group_by` key comparison when a collation
// is configured" per SPEC_FULL's DOMAIN STACK, grounded on the teacher's
// golang.org/x/text import for locale-aware string work. The active
// collator is process-wide and defaults to unset (nil), in which case
// stringCompare falls back to the plain Go `<` byte ordering spec.md
// documents as the default "unspecified locale" behavior — configuring a
// locale never changes cross-kind or numeric ordering, only how two strings
// compare against each other.
var (
	collMu    sync.RWMutex
	collTag   language.Tag
	collSet   bool
	collLocal string
)

// SetCollationLocale configures the process-wide string collation locale
// from a BCP 47 tag (e.g. "sv", "de-u-co-phonebk"). Passing "" clears it,
// reverting to byte-wise comparison. Returns an error for a tag
// golang.org/x/text/language cannot parse.
func SetCollationLocale(tag string) error {
	collMu.Lock()
	defer collMu.Unlock()
	if tag == "" {
		collSet = false
		collLocal = ""
		return nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return err
	}
	collTag = t
	collSet = true
	collLocal = tag
	return nil
}

// CollationLocale returns the currently configured locale tag, or "" if
// collation is unset.
func CollationLocale() string {
	collMu.RLock()
	defer collMu.RUnlock()
	return collLocal
}

// newCollator builds a fresh *collate.Collator for the active locale, or
// nil if none is configured. A Collator carries an internal scratch buffer
// that is not safe to share across concurrent comparisons, so each call
// site gets its own rather than reusing one stored collator value.
func newCollator() *collate.Collator {
	collMu.RLock()
	defer collMu.RUnlock()
	if !collSet {
		return nil
	}
	return collate.New(collTag)
}

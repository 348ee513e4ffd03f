package helper

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const DefaultSlugMaxLen = 160

// SlugOptions control the uniqueness check against the DB.
type SlugOptions struct {
	Table      string
	SlugColumn string

	// Soft-delete column (NULL = live row). Empty = no soft delete.
	SoftDeleteColumn string

	// Extra filters, e.g. tenant scope:
	// map[string]any{"letter_template_firm_id": firmID}
	Filters map[string]any

	// Max slug length including the -2/-3 suffix. 0 = DefaultSlugMaxLen.
	MaxLen int

	// Fallback base when the input normalizes to empty (Hebrew-only names do).
	DefaultBase string
}

// GenerateSlug normalizes a string into a slug:
// NFKD-fold diacritics, lower-case, non-alnum runs become a single "-".
func GenerateSlug(s string) string {
	s = norm.NFKD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case unicode.Is(unicode.Hebrew, r):
			// keep Hebrew letters, slugs are shown to Hebrew speakers
			b.WriteRune(r)
			lastDash = false
		case unicode.Is(unicode.Mn, r):
			// drop the combining marks NFKD splits off accented letters
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// cutToLen shortens to at most n bytes without splitting a rune; Hebrew
// slugs are multi-byte per letter.
func cutToLen(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return strings.Trim(s, "-")
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return strings.Trim(s[:cut], "-")
}

func isTaken(db *gorm.DB, opts SlugOptions, candidate string) (bool, error) {
	if opts.Table == "" || opts.SlugColumn == "" {
		return false, errors.New("slug options: table/slug column required")
	}

	q := db.Table(opts.Table).
		Where(fmt.Sprintf("lower(%s) = lower(?)", opts.SlugColumn), candidate)

	for k, v := range opts.Filters {
		q = q.Where(fmt.Sprintf("%s = ?", k), v)
	}
	if opts.SoftDeleteColumn != "" {
		q = q.Where(fmt.Sprintf("%s IS NULL", opts.SoftDeleteColumn))
	}

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// GenerateUniqueSlug builds a slug from base (or DefaultBase), unique
// case-insensitively among live rows within the Filters scope.
// Tries base, then base-2, base-3, ...
func GenerateUniqueSlug(db *gorm.DB, opts SlugOptions, base string) (string, error) {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}

	slug := GenerateSlug(base)
	if slug == "" {
		slug = GenerateSlug(opts.DefaultBase)
	}
	if slug == "" {
		return "", errors.New("slug: empty base and no default")
	}
	slug = cutToLen(slug, maxLen)

	taken, err := isTaken(db, opts, slug)
	if err != nil {
		return "", err
	}
	if !taken {
		return slug, nil
	}

	for i := 2; i < 1000; i++ {
		suffix := fmt.Sprintf("-%d", i)
		candidate := cutToLen(slug, maxLen-len(suffix)) + suffix
		taken, err := isTaken(db, opts, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.New("slug: exhausted candidates")
}

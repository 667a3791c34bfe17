package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"storefront-admin/internal/repository"

	"github.com/google/uuid"
)

const (
	maxSlugAttempts = 100
	// slug columns are VARCHAR(255); the base leaves room for a "-NNN" suffix
	maxSlugBase = 250
)

// slugify lowercases s and joins runs of letters and digits with hyphens
func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// slugChecker reports whether a slug is already used outside the product
type slugChecker func(ctx context.Context, slug string) (bool, error)

// uniqueSlug returns base, or base-1, base-2, ... for the first candidate not
// taken in storage nor reserved earlier in the same request.
func uniqueSlug(ctx context.Context, base string, reserved map[string]bool, exists slugChecker) (string, error) {
	if base == "" {
		base = "item"
	}
	if r := []rune(base); len(r) > maxSlugBase {
		base = strings.TrimRight(string(r[:maxSlugBase]), "-")
	}

	candidate := base
	for n := 1; n <= maxSlugAttempts; n++ {
		if !reserved[candidate] {
			taken, err := exists(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !taken {
				reserved[candidate] = true
				return candidate, nil
			}
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}

func slugExistsIn(products repository.ProductRepository, scope repository.SlugScope, productID uuid.UUID) slugChecker {
	return func(ctx context.Context, slug string) (bool, error) {
		return products.SlugExists(ctx, scope, slug, productID)
	}
}

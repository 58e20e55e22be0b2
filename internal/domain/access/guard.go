package access

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// Principal is the platform-assigned sender identifier of an inbound event.
type Principal int64

// Guard answers whether a principal may use the bot. The allow-list is fixed
// at construction and never mutated, so a Guard is safe for concurrent use.
type Guard struct {
	allowed map[Principal]struct{}
}

// NewGuard builds a guard over the given identifiers. An empty list denies everyone.
func NewGuard(ids []int64) *Guard {
	allowed := make(map[Principal]struct{}, len(ids))
	for _, id := range ids {
		allowed[Principal(id)] = struct{}{}
	}
	return &Guard{allowed: allowed}
}

// Authorize reports whether principal is a member of the allow-list.
func (g *Guard) Authorize(principal Principal) bool {
	if g == nil {
		return false
	}
	_, ok := g.allowed[principal]
	return ok
}

// Size returns the number of allowed principals.
func (g *Guard) Size() int {
	if g == nil {
		return 0
	}
	return len(g.allowed)
}

// IDs returns the allowed identifiers in ascending order.
func (g *Guard) IDs() []int64 {
	if g == nil {
		return nil
	}
	ids := make([]int64, 0, len(g.allowed))
	for id := range g.allowed {
		ids = append(ids, int64(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ParseIDs converts configuration values (numbers or comma separated strings)
// into identifiers. Blank entries are skipped.
func ParseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", sharedErrors.ErrInvalidAllowID, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

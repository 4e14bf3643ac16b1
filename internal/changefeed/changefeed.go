// Package changefeed maintains a per-debate version stream in Redis so
// clients can ask "has debate X changed since token T" instead of refetching
// the whole aggregate every poll cycle.
package changefeed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrUnavailable is returned when Redis is not configured or unreachable;
// callers treat the feed as absent and poll unconditionally.
var ErrUnavailable = errors.New("change feed unavailable")

// Store handles change-token operations in Redis
type Store struct{}

// NewStore creates a new Store instance
func NewStore() *Store {
	return &Store{}
}

// Token pairs a stream epoch with a version counter. The epoch is a uuid
// minted the first time a debate is bumped; if Redis loses its data the
// epoch changes and stale client tokens stop matching, forcing a refetch.
func formatToken(epoch string, version int64) string {
	return epoch + ":" + strconv.FormatInt(version, 10)
}

// ParseToken splits a client-supplied token into epoch and version. An
// empty or malformed token parses as "never seen anything".
func ParseToken(token string) (string, int64, bool) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	version, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || parts[0] == "" || version < 0 {
		return "", 0, false
	}
	return parts[0], version, true
}

func epochKey(debateID string) string {
	return fmt.Sprintf("debate:%s:epoch", debateID)
}

func versionKey(debateID string) string {
	return fmt.Sprintf("debate:%s:version", debateID)
}

// Bump advances the debate's version and returns the new token. Called by
// the orchestrator after every successful mutation; failures are logged by
// the caller, never propagated to the request.
func (s *Store) Bump(debateID string) (string, error) {
	client := GetRedisClient()
	if s == nil || client == nil {
		return "", ErrUnavailable
	}
	ctx := GetContext()

	// SetNX so the epoch survives concurrent first bumps.
	if err := client.SetNX(ctx, epochKey(debateID), uuid.NewString(), 0).Err(); err != nil {
		return "", fmt.Errorf("failed to set stream epoch: %w", err)
	}
	epoch, err := client.Get(ctx, epochKey(debateID)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read stream epoch: %w", err)
	}
	version, err := client.Incr(ctx, versionKey(debateID)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to bump version: %w", err)
	}

	return formatToken(epoch, version), nil
}

// Current returns the debate's current token without bumping. A debate that
// was never bumped reports version 0 under a fresh epoch.
func (s *Store) Current(debateID string) (string, error) {
	client := GetRedisClient()
	if s == nil || client == nil {
		return "", ErrUnavailable
	}
	ctx := GetContext()

	if err := client.SetNX(ctx, epochKey(debateID), uuid.NewString(), 0).Err(); err != nil {
		return "", fmt.Errorf("failed to set stream epoch: %w", err)
	}
	epoch, err := client.Get(ctx, epochKey(debateID)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read stream epoch: %w", err)
	}
	version, err := client.Get(ctx, versionKey(debateID)).Int64()
	if err != nil {
		version = 0
	}

	return formatToken(epoch, version), nil
}

// ChangedSince reports whether the debate has changed relative to the
// client's token, along with the current token. An unparseable token, or
// one from a different epoch, counts as changed.
func (s *Store) ChangedSince(debateID, token string) (bool, string, error) {
	current, err := s.Current(debateID)
	if err != nil {
		return false, "", err
	}

	clientEpoch, clientVersion, ok := ParseToken(token)
	if !ok {
		return true, current, nil
	}
	currentEpoch, currentVersion, _ := ParseToken(current)
	if clientEpoch != currentEpoch {
		return true, current, nil
	}
	return clientVersion < currentVersion, current, nil
}

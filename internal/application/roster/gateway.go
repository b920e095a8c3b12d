package roster

import (
	"context"

	"gymroster/internal/domain/member"
)

// Gateway is the remote authority for the member collection.
// Any returned error is treated as a rejected result; the Store does not
// distinguish transport failures from server-reported ones.
type Gateway interface {
	// List returns the full collection in server order.
	List(ctx context.Context) ([]member.Member, error)
	// Create stores a draft and returns it with its assigned id.
	Create(ctx context.Context, draft member.Draft) (member.Member, error)
	// Update replaces the member with id and returns the server state.
	Update(ctx context.Context, id string, draft member.Draft) (member.Member, error)
	// Delete removes the member with id.
	Delete(ctx context.Context, id string) error
}

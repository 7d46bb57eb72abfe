package component

import (
	"github.com/rotisserie/eris"

	"github.com/framecs/runtime/internal/core/ecs"
)

var ErrDetached = eris.New("component has no live owner")

// owner resolves the entity b is attached to.
func owner(b *ecs.Base) (*ecs.Entity, error) {
	e, ok := b.Entity()
	if !ok {
		return nil, eris.Wrapf(ErrDetached, "owner %s", b.Owner())
	}
	return e, nil
}

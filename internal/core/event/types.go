package event

import "github.com/simcore/server/internal/core/ecs"

// ModelRemoved is emitted after a cascade completes.
type ModelRemoved struct {
	World      ecs.Identity
	WorldName  string
	Model      ecs.Identity
	ModelName  string
	Joints     int
	Collisions int
	Links      int
}

// ContactBegan is emitted when two mesh collisions start touching.
type ContactBegan struct {
	World ecs.Identity
	A     ecs.Identity
	B     ecs.Identity
}

package component

import "github.com/framecs/runtime/internal/core/ecs"

// Gameplay groups. Indices match data/labels.yaml.
const (
	PlayerGroup ecs.Group = iota
	EnemyGroup
	NPCGroup
	ItemGroup
	DoorGroup
	PlayerBulletGroup
	EnemyBulletGroup
	BreakableGroup
	TileGroup
)

// Render layers, drawn back to front.
const (
	Background ecs.Layer = iota
	Middleground
	Foreground
)

// DrawOrder lists the layers in the order a frame paints them.
var DrawOrder = []ecs.Layer{Background, Middleground, Foreground}

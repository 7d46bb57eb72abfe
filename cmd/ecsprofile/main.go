// Profiling:
// go build ./cmd/ecsprofile
// go tool pprof -http=":8000" -nodefraction=0.001 ./ecsprofile mem.pprof

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/framecs/runtime/internal/component"
	"github.com/framecs/runtime/internal/core/ecs"
)

func main() {
	rounds := 20
	iters := 500
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	err := run(rounds, iters, entities)
	p.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(rounds, iters, numEntities int) error {
	for range rounds {
		m := ecs.NewManager(ecs.WithCapacity(numEntities))
		for range iters {
			for i := range numEntities {
				if err := spawn(m, i); err != nil {
					return err
				}
			}
			m.Update(16 * time.Millisecond)

			enemies, err := m.Group(component.EnemyGroup)
			if err != nil {
				return err
			}
			ecs.Each2(enemies, func(e *ecs.Entity, p *component.Position, _ *component.Velocity) {
				if p.X > 0 {
					e.Destroy()
				}
			})
			if _, err := m.Refresh(); err != nil {
				return err
			}
		}
	}
	return nil
}

func spawn(m *ecs.Manager, i int) error {
	e := m.AddEntity()
	if _, err := ecs.AddComponent(e, &component.Position{X: float64(i)}); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(e, &component.Velocity{DX: 1, DY: 1}); err != nil {
		return err
	}
	return e.AddGroup(component.EnemyGroup)
}

package engine

import (
	"github.com/simcore/server/internal/core/ecs"
	"github.com/simcore/server/internal/core/event"
	"github.com/simcore/server/internal/entity"
	"go.uber.org/zap"
)

// RemoveModel removes model and everything it owns from its world.
func (e *Engine) RemoveModel(model ecs.Identity) bool {
	return e.removeModel(e.store.Parent(model), model)
}

// RemoveModelByIndex removes the model at index within world.
func (e *Engine) RemoveModelByIndex(world ecs.Identity, index int) bool {
	model := e.store.IdentityAt(world, entity.KindModel, index)
	if !model.Valid() {
		return false
	}
	return e.removeModel(world, model)
}

// RemoveModelByName removes the first model in world, in registration order,
// whose name is name. Duplicate names are not treated as an error.
func (e *Engine) RemoveModelByName(world ecs.Identity, name string) bool {
	model := e.ModelByName(world, name)
	if !model.Valid() {
		return false
	}
	return e.removeModel(world, model)
}

// ModelRemoved reports whether model is absent from the store.
func (e *Engine) ModelRemoved(model ecs.Identity) bool {
	_, ok := e.store.Model(model)
	return !ok
}

// removeModel detaches and erases, in order, the joints whose child link is in
// the model, the model's collisions, its links, and finally the model. A
// native handle is always detached before its record is erased. Nothing is
// touched when the model is not registered in world.
func (e *Engine) removeModel(worldID, modelID ecs.Identity) bool {
	model, ok := e.store.Model(modelID)
	if !ok || model.World != worldID {
		return false
	}
	world, ok := e.store.World(worldID)
	if !ok {
		return false
	}
	native := world.Native
	log := e.log.With(
		zap.String("world", world.Name),
		zap.String("model", model.Name),
		zap.Stringer("id", modelID),
	)
	// the record is erased below
	modelName := model.Name

	joints := ecs.Collect(e.store.Joints(), func(_ ecs.Identity, j *entity.Joint) bool {
		child, ok := e.store.Link(j.Child)
		return ok && child.Model == modelID
	})
	for _, id := range joints {
		j, _ := e.store.Joint(id)
		if !native.RemoveConstraint(j.Constraint) {
			log.Debug("joint constraint not attached", zap.String("joint", j.Name))
		}
		e.store.Erase(id)
	}

	collisions := ecs.Collect(e.store.Collisions(), func(_ ecs.Identity, c *entity.Collision) bool {
		return c.Model == modelID
	})
	for _, id := range collisions {
		e.store.Erase(id)
	}

	links := ecs.Collect(e.store.Links(), func(_ ecs.Identity, l *entity.Link) bool {
		return l.Model == modelID
	})
	removed := make(map[ecs.Identity]struct{}, len(links))
	for _, id := range links {
		l, _ := e.store.Link(id)
		if !native.RemoveRigidBody(l.Body) {
			log.Debug("link body not attached", zap.String("link", l.Name))
		}
		e.store.Erase(id)
		removed[id] = struct{}{}
	}

	e.store.Erase(modelID)

	e.warnDanglingParents(log, removed)
	log.Info("model removed",
		zap.Int("joints", len(joints)),
		zap.Int("collisions", len(collisions)),
		zap.Int("links", len(links)),
	)
	if e.bus != nil {
		event.Emit(e.bus, event.ModelRemoved{
			World:      worldID,
			WorldName:  world.Name,
			Model:      modelID,
			ModelName:  modelName,
			Joints:     len(joints),
			Collisions: len(collisions),
			Links:      len(links),
		})
	}
	return true
}

// warnDanglingParents reports surviving joints whose parent link was just
// removed. Such joints are kept: joints follow their child link only.
func (e *Engine) warnDanglingParents(log *zap.Logger, removed map[ecs.Identity]struct{}) {
	if len(removed) == 0 {
		return
	}
	e.store.Joints().Each(func(_ ecs.Identity, j *entity.Joint) {
		if _, ok := removed[j.Parent]; ok {
			log.Warn("joint parent link removed", zap.String("joint", j.Name))
		}
	})
}

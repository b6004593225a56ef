package server

import (
	"polyarena/internal/game"
)

// calculateShapeDeltas compares current shapes with the client's last snapshot
// to find added, removed and moved shapes
func calculateShapeDeltas(current []game.Shape, last []game.Shape) ([]game.Shape, []uint32, []ShapeUpdate) {
	// Create maps for efficient lookup
	lastShapeMap := make(map[uint32]game.Shape, len(last))
	for _, shape := range last {
		lastShapeMap[shape.ID] = shape
	}

	currentShapeMap := make(map[uint32]struct{}, len(current))
	for _, shape := range current {
		currentShapeMap[shape.ID] = struct{}{}
	}

	var shapesAdded []game.Shape
	var shapesRemoved []uint32
	var shapesMoved []ShapeUpdate

	// Find added and changed shapes (in current, new or different from last)
	for _, shape := range current {
		prev, exists := lastShapeMap[shape.ID]
		if !exists {
			shapesAdded = append(shapesAdded, shape)
			continue
		}
		if prev.Pos != shape.Pos || prev.Angle != shape.Angle || prev.Health != shape.Health {
			shapesMoved = append(shapesMoved, ShapeUpdate{
				ID:     shape.ID,
				Pos:    shape.Pos,
				Angle:  shape.Angle,
				Health: shape.Health,
			})
		}
	}

	// Find removed shapes (in last but not in current)
	for _, shape := range last {
		if _, exists := currentShapeMap[shape.ID]; !exists {
			shapesRemoved = append(shapesRemoved, shape.ID)
		}
	}

	return shapesAdded, shapesRemoved, shapesMoved
}

// buildDelta builds the frame a client needs to go from last to snap
func buildDelta(snap game.Snapshot, last game.Snapshot) DeltaMsg {
	added, removed, moved := calculateShapeDeltas(snap.Shapes, last.Shapes)
	return DeltaMsg{
		Type:          MsgTypeDelta,
		Tick:          snap.Tick,
		Time:          snap.Time,
		Player:        snap.Player,
		Projectiles:   snap.Projectiles,
		ShapesAdded:   added,
		ShapesRemoved: removed,
		ShapesMoved:   moved,
		Particles:     snap.Particles,
		Events:        snap.Events,
	}
}

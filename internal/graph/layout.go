package graph

import (
	"math"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// Procedural placement constants. The layout is intentionally cheap and
// order-stable: agents sit on an upper arc, tasks on a lower arc, tools
// in a left-hand column.
const (
	layoutCenterX = 500.0
	layoutCenterY = 380.0
	layoutRadius  = 280.0
	toolColumnX   = 80.0
	toolRowY      = 120.0
	toolRowGap    = 90.0
)

// layout assigns deterministic coordinates in place. Positions depend
// only on each node's kind and its rank among nodes of the same kind.
func layout(nodes []models.Node) {
	var agents, tasks, tools int
	for i := range nodes {
		switch nodes[i].Kind {
		case models.NodeAgent:
			agents++
		case models.NodeTask:
			tasks++
		case models.NodeTool:
			tools++
		}
	}

	var agentRank, taskRank, toolRank int
	for i := range nodes {
		switch nodes[i].Kind {
		case models.NodeAgent:
			nodes[i].X, nodes[i].Y = arcPosition(agentRank, agents, -1)
			agentRank++
		case models.NodeTask:
			nodes[i].X, nodes[i].Y = arcPosition(taskRank, tasks, 1)
			taskRank++
		case models.NodeTool:
			nodes[i].X = toolColumnX
			nodes[i].Y = toolRowY + toolRowGap*float64(toolRank)
			toolRank++
		}
	}
}

// arcPosition spaces rank-of-n along a semicircle. vertical is -1 for
// the upper arc and 1 for the lower arc.
func arcPosition(rank, n int, vertical float64) (x, y float64) {
	theta := math.Pi * float64(rank+1) / float64(n+1)
	x = layoutCenterX + layoutRadius*math.Cos(theta)
	y = layoutCenterY + vertical*layoutRadius*math.Sin(theta)
	return x, y
}

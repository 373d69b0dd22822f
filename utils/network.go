package utils

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"aerogrow/models"
)

// Network layouts
const (
	LayoutGrid    = "grid"
	LayoutMindmap = "mindmap"

	DefaultTowerCount = 10
	MaxTowerCount     = 30
)

const (
	centerX     = 400.0
	centerY     = 300.0
	goldenRatio = 1.618033988749895
)

var (
	gridPlantTypes    = []string{"Lettuce", "Basil", "Spinach", "Kale", "Arugula"}
	mindmapPlantTypes = []string{"Lettuce", "Basil", "Spinach", "Kale", "Arugula", "Mint", "Bok Choy", "Strawberry", "Herbs Mix", "Microgreens"}
	gridRowY          = []float64{120, 240, 360}
)

// BuildTopology returns base extended with towerCount towers, their
// sensors and the links between them. base holds the subsystem nodes of
// the layout and is not modified.
func BuildTopology(base models.NetworkData, layout string, towerCount int, rng *rand.Rand) models.NetworkData {
	out := models.NetworkData{
		Nodes:       append([]models.NetworkNode(nil), base.Nodes...),
		Connections: append([]models.NetworkConnection(nil), base.Connections...),
	}

	if layout == LayoutMindmap {
		for i := range out.Nodes {
			if p := out.Nodes[i].Placement; p != nil {
				out.Nodes[i].X, out.Nodes[i].Y = mindmapPosition(p.Kind, p.Index, p.Total, p.Variant)
			}
		}
		for i := 1; i <= towerCount; i++ {
			addMindmapTower(&out, i, rng)
		}
		return out
	}

	for i := 1; i <= towerCount; i++ {
		addGridTower(&out, i, towerCount, rng)
	}
	return out
}

func addGridTower(topology *models.NetworkData, i, count int, rng *rand.Rand) {
	perRow := int(math.Ceil(float64(count) / 3))
	row := (i - 1) / perRow
	col := (i - 1) % perRow
	x := 360 + float64(col)*80
	y := gridRowY[row] + float64(i%2)*25

	tower := towerID(i)
	status := "online"
	if rng.Float64() <= 0.1 {
		status = "warning"
	}
	topology.Nodes = append(topology.Nodes,
		models.NetworkNode{
			ID:          tower,
			Type:        "tower",
			Name:        fmt.Sprintf("Tower %d", i),
			Status:      status,
			X:           x,
			Y:           y,
			PlantType:   gridPlantTypes[rng.Intn(len(gridPlantTypes))],
			GrowthStage: intPtr(rng.Intn(100)),
			Health:      intPtr(85 + rng.Intn(15)),
		},
		sensorNode(tower+"-temp", fmt.Sprintf("T%d Temp", i), x-30, y-35, fmt.Sprintf("%.1f", 19+rng.Float64()*5)),
		sensorNode(tower+"-humidity", fmt.Sprintf("T%d Humidity", i), x+30, y-35, fmt.Sprintf("%.1f", 65+rng.Float64()*15)),
	)

	topology.Connections = append(topology.Connections,
		link("water-hub", tower, nil),
		link("light-hub", tower, nil),
		link(tower, tower+"-temp", nil),
		link(tower, tower+"-humidity", nil),
		link(tower+"-temp", "sensor-hub", nil),
		link(tower+"-humidity", "sensor-hub", nil),
	)

	if i%3 == 0 {
		topology.Nodes = append(topology.Nodes,
			sensorNode(tower+"-ph", fmt.Sprintf("T%d pH", i), x, y+40, fmt.Sprintf("%.1f", 5.8+rng.Float64()*1.2)))
		topology.Connections = append(topology.Connections,
			link(tower, tower+"-ph", nil),
			link(tower+"-ph", "sensor-hub", nil),
		)
	}
}

func addMindmapTower(topology *models.NetworkData, i int, rng *rand.Rand) {
	tower := towerID(i)
	x, y := mindmapPosition("tower", i-1, 0, "")

	health := 85 + rng.Intn(15)
	growth := rng.Intn(100)
	status := "online"
	if rng.Float64() <= 0.15 {
		status = "warning"
	}
	topology.Nodes = append(topology.Nodes, models.NetworkNode{
		ID:          tower,
		Type:        "tower",
		Name:        fmt.Sprintf("Tower %d", i),
		Status:      status,
		X:           x,
		Y:           y,
		PlantType:   mindmapPlantTypes[(i-1)%len(mindmapPlantTypes)],
		GrowthStage: intPtr(growth),
		Health:      intPtr(health),
	})

	sx, sy := mindmapPosition("sensor", 0, 3, tower)
	topology.Nodes = append(topology.Nodes, sensorNode(tower+"-temp", fmt.Sprintf("T%d Temp", i), sx, sy, fmt.Sprintf("%.1f", 20+rng.Float64()*4)))
	sx, sy = mindmapPosition("sensor", 1, 3, tower)
	topology.Nodes = append(topology.Nodes, sensorNode(tower+"-humidity", fmt.Sprintf("T%d Humidity", i), sx, sy, fmt.Sprintf("%.1f", 65+rng.Float64()*15)))

	hasPH := i%3 == 1
	hasEC := i%4 == 2
	sx, sy = mindmapPosition("sensor", 2, 3, tower)
	if hasPH {
		topology.Nodes = append(topology.Nodes, sensorNode(tower+"-ph", fmt.Sprintf("T%d pH", i), sx, sy, fmt.Sprintf("%.1f", 5.8+rng.Float64()*1.2)))
	}
	if hasEC {
		topology.Nodes = append(topology.Nodes, sensorNode(tower+"-nutrient", fmt.Sprintf("T%d EC", i), sx, sy, fmt.Sprintf("%.2f", 1.2+rng.Float64()*0.8)))
	}

	water := link("water-hub", tower, nil)
	water.FlowRate = intPtr(10 + rng.Intn(5))
	light := link("light-hub", tower, nil)
	light.Intensity = intPtr(80 + rng.Intn(20))

	topology.Connections = append(topology.Connections,
		water,
		light,
		link(tower, tower+"-temp", nil),
		link(tower, tower+"-humidity", nil),
		link(tower+"-temp", "sensor-hub", intPtr(1+rng.Intn(5))),
		link(tower+"-humidity", "sensor-hub", intPtr(1+rng.Intn(5))),
	)
	if hasPH {
		topology.Connections = append(topology.Connections,
			link(tower, tower+"-ph", nil),
			link(tower+"-ph", "sensor-hub", intPtr(1+rng.Intn(3))),
		)
	}
	if hasEC {
		topology.Connections = append(topology.Connections,
			link(tower, tower+"-nutrient", nil),
			link(tower+"-nutrient", "sensor-hub", intPtr(1+rng.Intn(3))),
		)
	}
}

// mindmapPosition places hubs along a central pipeline, towers on two
// semicircles around it, subsystems around their hub and sensors in
// orbit around their tower.
func mindmapPosition(kind string, index, total int, variant string) (float64, float64) {
	x, y := centerX, centerY
	fi := float64(index)

	switch kind {
	case "hub":
		const spacing = 180.0
		offset := float64(total-1) * spacing / 2
		x = centerX - offset + fi*spacing
		y = centerY + math.Sin(fi*math.Pi/2)*20

	case "tower":
		const radius = 220.0
		var angle float64
		if index < 5 {
			angle = math.Pi - math.Pi*(fi+1)/6
		} else {
			angle = math.Pi * (fi - 4) / 6
		}
		offsetAngle := math.Mod(fi*goldenRatio, 2*math.Pi)
		x = centerX + math.Cos(angle)*radius + math.Cos(offsetAngle)*20
		y = centerY + math.Sin(angle)*radius + math.Sin(offsetAngle)*20

	case "sensor":
		if n, ok := towerNumber(variant); ok {
			tx, ty := mindmapPosition("tower", n-1, DefaultTowerCount, "")
			angle := fi * 2.5
			x = tx + math.Cos(angle)*40
			y = ty + math.Sin(angle)*40
		} else if total > 0 {
			angle := math.Pi * 2 * fi / float64(total)
			x = centerX + math.Cos(angle)*80
			y = centerY + math.Sin(angle)*80
		}

	case "subsystem":
		if variant == "" {
			break
		}
		hubIndex := 0
		switch strings.SplitN(variant, "-", 2)[0] {
		case "light":
			hubIndex = 1
		case "sensor":
			hubIndex = 2
		case "data":
			hubIndex = 3
		}
		hx, hy := mindmapPosition("hub", hubIndex, 4, "")
		angle := math.Pi*2*(fi/3) + float64(hubIndex)*math.Pi/2
		x = hx + math.Cos(angle)*70
		y = hy + math.Sin(angle)*70

	default:
		angle := fi * 0.5 * goldenRatio
		radius := 20 + 8*fi
		x = centerX + math.Cos(angle)*radius
		y = centerY + math.Sin(angle)*radius
	}

	return x, y
}

// EnsureControlLinks connects the analytics server to the master
// controller and every tower to the master controller when those links
// are missing. It returns the number of links added.
func EnsureControlLinks(topology *models.NetworkData) int {
	analytics := findNode(topology.Nodes, func(n models.NetworkNode) bool {
		name := strings.ToLower(n.Name)
		return n.Type == "server" && (strings.Contains(name, "analytics") || strings.Contains(name, "data"))
	})
	master := findNode(topology.Nodes, func(n models.NetworkNode) bool {
		return (n.Type == "hub" || n.Type == "controller") && strings.Contains(strings.ToLower(n.Name), "master")
	})
	if master == nil {
		master = findNode(topology.Nodes, func(n models.NetworkNode) bool {
			return n.Type == "hub" && strings.Contains(strings.ToLower(n.Name), "control")
		})
	}
	if analytics == nil || master == nil {
		return 0
	}

	added := 0
	if !linked(topology.Connections, analytics.ID, master.ID) {
		topology.Connections = append(topology.Connections, models.NetworkConnection{
			Source: analytics.ID, Target: master.ID, Status: "active",
		})
		added++
	}

	for _, n := range topology.Nodes {
		if n.Type != "tower" || linked(topology.Connections, n.ID, master.ID) {
			continue
		}
		topology.Connections = append(topology.Connections, models.NetworkConnection{
			Source: master.ID, Target: n.ID, Status: "active",
		})
		added++
	}
	return added
}

func findNode(nodes []models.NetworkNode, match func(models.NetworkNode) bool) *models.NetworkNode {
	for i := range nodes {
		if match(nodes[i]) {
			return &nodes[i]
		}
	}
	return nil
}

func linked(conns []models.NetworkConnection, a, b string) bool {
	for _, c := range conns {
		if (c.Source == a && c.Target == b) || (c.Source == b && c.Target == a) {
			return true
		}
	}
	return false
}

func towerID(i int) string {
	return "tower-" + strconv.Itoa(i)
}

func towerNumber(variant string) (int, bool) {
	rest, ok := strings.CutPrefix(variant, "tower-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.SplitN(rest, "-", 2)[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

func sensorNode(id, name string, x, y float64, value string) models.NetworkNode {
	return models.NetworkNode{ID: id, Type: "sensor", Name: name, Status: "online", X: x, Y: y, Value: value}
}

func link(source, target string, dataRate *int) models.NetworkConnection {
	return models.NetworkConnection{Source: source, Target: target, Status: "online", DataRate: dataRate}
}

func intPtr(v int) *int {
	return &v
}

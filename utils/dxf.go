package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const entity3DFace = "3DFACE"

// DXFLayers summarises the 3DFACE entities of a DXF drawing.
type DXFLayers struct {
	// Names lists layers in order of first appearance.
	Names    []string
	Faces    map[string]int
	Entities int
}

// ParseDXF reads group code/value line pairs and counts 3DFACE entities
// per layer (group code 8). Faces without a layer count towards Entities
// only.
func ParseDXF(r io.Reader) (DXFLayers, error) {
	out := DXFLayers{Faces: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inFace, hasLayer := false, false
	line := 0
	for scanner.Scan() {
		line++
		code := strings.TrimSpace(scanner.Text())
		if !scanner.Scan() {
			break
		}
		line++
		value := strings.TrimSpace(scanner.Text())

		switch code {
		case "0":
			inFace = value == entity3DFace
			hasLayer = false
			if inFace {
				out.Entities++
			}
		case "8":
			if !inFace || hasLayer {
				continue
			}
			hasLayer = true
			if _, ok := out.Faces[value]; !ok {
				out.Names = append(out.Names, value)
			}
			out.Faces[value]++
		}
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("failed to read DXF at line %d: %w", line, err)
	}
	return out, nil
}

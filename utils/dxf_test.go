package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDXF = `  0
SECTION
  2
ENTITIES
  0
3DFACE
  8
BZ_fault_Break_O_Day
 10
0.0
  0
3DFACE
  8
BZ_quartz_vein
  0
LINE
  8
Annotations
  0
3DFACE
  8
BZ_fault_Break_O_Day
  0
3DFACE
 10
1.0
  0
ENDSEC
  0
EOF
`

func TestParseDXF(t *testing.T) {
	layers, err := ParseDXF(strings.NewReader(sampleDXF))
	require.NoError(t, err)

	assert.Equal(t, 4, layers.Entities)
	assert.Equal(t, []string{"BZ_fault_Break_O_Day", "BZ_quartz_vein"}, layers.Names)
	assert.Equal(t, map[string]int{"BZ_fault_Break_O_Day": 2, "BZ_quartz_vein": 1}, layers.Faces)
}

func TestParseDXFEmpty(t *testing.T) {
	layers, err := ParseDXF(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, layers.Entities)
	assert.Empty(t, layers.Names)
}

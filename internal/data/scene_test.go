package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartScene = `
worlds:
  - name: default
    models:
      - name: cart
        links:
          - name: chassis
            mass: 2
            position: [0, 1]
            collisions:
              - name: chassis_box
                geometry: box
                size: [2, 0.5]
                mesh: true
          - name: wheel
            mass: 0.5
            position: [1, 0.5]
            collisions:
              - name: wheel_circle
                geometry: circle
                radius: 0.25
        joints:
          - name: axle
            type: pivot
            parent: chassis
            child: wheel
            anchor: [1, 0.5]
      - name: ground
        links:
          - name: plane
            collisions:
              - name: plane_box
                geometry: box
                size: [50, 1]
`

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cartScene), 0o644))

	sc, err := LoadScene(path)
	require.NoError(t, err)
	require.Len(t, sc.Worlds, 1)
	assert.Equal(t, 2, sc.Count())

	cart := sc.Worlds[0].Models[0]
	assert.Equal(t, "cart", cart.Name)
	assert.Len(t, cart.Links, 2)
	assert.True(t, cart.Links[0].Collisions[0].Mesh)
	assert.Equal(t, JointPivot, cart.Joints[0].Type)

	x, y := Vec(cart.Links[0].Position)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 1.0, y)
}

func TestLoadSceneMissingFile(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseSceneRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"unnamed world": `worlds: [{models: []}]`,
		"unknown geometry": `
worlds:
  - name: w
    models:
      - name: m
        links:
          - name: l
            collisions: [{name: c, geometry: cone}]`,
		"box without size": `
worlds:
  - name: w
    models:
      - name: m
        links:
          - name: l
            collisions: [{name: c, geometry: box}]`,
		"unknown child": `
worlds:
  - name: w
    models:
      - name: m
        links: [{name: l}]
        joints: [{name: j, type: pivot, child: ghost}]`,
		"unknown parent model": `
worlds:
  - name: w
    models:
      - name: m
        links: [{name: l}]
        joints: [{name: j, type: pivot, parent: "other::l", child: l}]`,
		"duplicate model": `
worlds:
  - name: w
    models:
      - name: m
        links: [{name: l}]
      - name: m
        links: [{name: l}]`,
		"pin without parent": `
worlds:
  - name: w
    models:
      - name: m
        links: [{name: l}]
        joints: [{name: j, type: pin, child: l}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScene([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseSceneScopedParent(t *testing.T) {
	doc := `
worlds:
  - name: w
    models:
      - name: base
        links: [{name: mount}]
      - name: arm
        links: [{name: upper, mass: 1}]
        joints: [{name: shoulder, type: pin, parent: "base::mount", child: upper}]`
	sc, err := ParseScene([]byte(doc))
	require.NoError(t, err)
	model, link := SplitScoped(sc.Worlds[0].Models[1].Joints[0].Parent)
	assert.Equal(t, "base", model)
	assert.Equal(t, "mount", link)
}

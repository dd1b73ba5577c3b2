package light

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypeSpot, WithNode(node.WithName("lamp")))

	assert.Equal(t, "lamp", l.Name())
	assert.Equal(t, node.KindLight, l.Kind())
	assert.Equal(t, node.PriorityLight, l.Priority())
	assert.Equal(t, LightTypeSpot, l.Type())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, l.Ambient())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Diffuse())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Specular())
	assert.Equal(t, DefaultRadius, l.Radius())
	assert.Equal(t, DefaultCutoff, l.Cutoff())
	assert.Equal(t, DefaultExponent, l.Exponent())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Direction())
}

func TestNewLightUnknownTypeFallsBackToPoint(t *testing.T) {
	l := NewLight(LightType(7))
	assert.Equal(t, LightTypePoint, l.Type())
}

func TestLightOptions(t *testing.T) {
	l := NewLight(LightTypeDirectional,
		WithColor(mgl32.Vec3{0.5, 0.25, 1}),
		WithAmbient(mgl32.Vec3{0.1, 0.1, 0.1}),
		WithDirection(mgl32.Vec3{0, 0, -4}),
		WithRadius(3),
		WithSpotCone(120, -2),
	)

	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, l.Diffuse())
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, l.Specular())
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0.1}, l.Ambient())
	assert.True(t, l.Direction().ApproxEqual(mgl32.Vec3{0, 0, -1}))
	assert.Equal(t, float32(3), l.Radius())
	assert.Equal(t, float32(90), l.Cutoff())
	assert.Equal(t, float32(0), l.Exponent())
}

func TestSetDirectionIgnoresZero(t *testing.T) {
	l := NewLight(LightTypeDirectional)
	l.SetDirection(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Direction())
}

func TestLightTypeString(t *testing.T) {
	assert.Equal(t, "point", LightTypePoint.String())
	assert.Equal(t, "directional", LightTypeDirectional.String())
	assert.Equal(t, "spot", LightTypeSpot.String())
	assert.Equal(t, "unknown", LightType(9).String())
}

func TestLightsFieldsDeclareEveryUniform(t *testing.T) {
	for _, name := range []string{
		UniformCount, UniformTypes, UniformPositions, UniformDirections, UniformAmbients,
		UniformDiffuses, UniformSpeculars, UniformRadii, UniformCutoffs, UniformExponents,
	} {
		assert.True(t, strings.Contains(GPULightsFieldsSource, name+":"), name)
	}
}

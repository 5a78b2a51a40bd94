package angle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rectification-lab/internal/domain"
)

func TestDifference_SelfAndOpposite(t *testing.T) {
	for _, lon := range []float64{0, 13.5, 179.9, 180, 359.99, -45, 725} {
		assert.InDelta(t, 0, Difference(lon, lon), 1e-9, "lon=%v", lon)
		assert.InDelta(t, 180, Difference(lon, lon+180), 1e-9, "lon=%v", lon)
	}
}

func TestDifference_ShortestPath(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 350, 20},
		{350, 10, 20},
		{0, 90, 90},
		{-10, 10, 20},
		{720, 1, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Difference(tt.a, tt.b), 1e-9, "%v vs %v", tt.a, tt.b)
	}
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 350, Normalize(-10), 1e-9)
	assert.InDelta(t, 0, Normalize(360), 1e-9)
	assert.InDelta(t, 5, Normalize(725), 1e-9)
	assert.GreaterOrEqual(t, Normalize(-1e-15), 0.0)
	assert.Less(t, Normalize(-1e-15), 360.0)
}

func TestSignIndex(t *testing.T) {
	assert.Equal(t, 0, SignIndex(0))
	assert.Equal(t, 0, SignIndex(29.999))
	assert.Equal(t, 1, SignIndex(30))
	assert.Equal(t, 11, SignIndex(359.9))
	assert.Equal(t, 11, SignIndex(-0.1))
	assert.Equal(t, 4, SignIndex(134))
}

func TestSignLord(t *testing.T) {
	assert.Equal(t, domain.Mars, SignLord(0))
	assert.Equal(t, domain.Sun, SignLord(4))
	assert.Equal(t, domain.Saturn, SignLord(10))
	assert.Equal(t, domain.Jupiter, SignLord(11))
	assert.Equal(t, domain.Mars, SignLord(12))
}

func TestSignModality(t *testing.T) {
	assert.Equal(t, Movable, SignModality(0))
	assert.Equal(t, Fixed, SignModality(1))
	assert.Equal(t, Dual, SignModality(2))
	assert.Equal(t, Movable, SignModality(9))
	assert.Equal(t, Dual, SignModality(11))
}

func TestPlanetDignity(t *testing.T) {
	assert.Equal(t, Exalted, PlanetDignity(domain.Sun, 0))
	assert.Equal(t, Debilitated, PlanetDignity(domain.Sun, 6))
	assert.Equal(t, OwnSign, PlanetDignity(domain.Sun, 4))
	assert.Equal(t, Neutral, PlanetDignity(domain.Sun, 2))
	assert.Equal(t, OwnSign, PlanetDignity(domain.Saturn, 10))
}

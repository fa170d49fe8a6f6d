package geometry

import (
	"testing"

	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Квадрат (0,0)-(0,10)-(10,10)-(10,0)
func squareBoundary() []models.Point {
	return []models.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 0},
	}
}

// L-образный полигон: точка внутри bounding box, но вне полигона,
// должна классифицироваться как внешняя.
func lShapeBoundary() []models.Point {
	return []models.Point{
		{Lat: 0, Lng: 0},
		{Lat: 10, Lng: 0},
		{Lat: 10, Lng: 4},
		{Lat: 4, Lng: 4},
		{Lat: 4, Lng: 10},
		{Lat: 0, Lng: 10},
	}
}

func TestContains_PointInsideSquare(t *testing.T) {
	inside, err := Contains(squareBoundary(), models.Point{Lat: 5, Lng: 5})

	require.NoError(t, err)
	assert.True(t, inside)
}

func TestContains_PointOutsideSquare(t *testing.T) {
	inside, err := Contains(squareBoundary(), models.Point{Lat: 20, Lng: 20})

	require.NoError(t, err)
	assert.False(t, inside)
}

func TestContains_PointOnEdgeIsInside(t *testing.T) {
	// Точка на ребре классифицируется как внутренняя (замкнутая область)
	inside, err := Contains(squareBoundary(), models.Point{Lat: 0, Lng: 5})

	require.NoError(t, err)
	assert.True(t, inside)
}

func TestContains_PointOnVertexIsInside(t *testing.T) {
	inside, err := Contains(squareBoundary(), models.Point{Lat: 10, Lng: 10})

	require.NoError(t, err)
	assert.True(t, inside)
}

func TestContains_LShapeExcludesNotch(t *testing.T) {
	// (8,8) лежит внутри bounding box L-полигона, но вне самого полигона
	inside, err := Contains(lShapeBoundary(), models.Point{Lat: 8, Lng: 8})

	require.NoError(t, err)
	assert.False(t, inside)

	// А (2,2) - внутри "ноги" буквы L
	inside, err = Contains(lShapeBoundary(), models.Point{Lat: 2, Lng: 2})

	require.NoError(t, err)
	assert.True(t, inside)
}

func TestContains_DegenerateBoundary(t *testing.T) {
	twoPoints := []models.Point{
		{Lat: 0, Lng: 0},
		{Lat: 10, Lng: 10},
	}

	inside, err := Contains(twoPoints, models.Point{Lat: 5, Lng: 5})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDegenerateZone)
	assert.False(t, inside)
}

package geometry

import (
	"fmt"

	"github.com/shelepin/campus_safety_system/internal/models"
)

// минимальное число вершин, при котором полигон образует площадь
const minBoundaryVertices = 3

// Contains проверяет принадлежность точки полигону методом трассировки луча.
// Точки на ребре или в вершине считаются внутренними (замкнутая область),
// чтобы результат был детерминирован для инцидентов прямо на границе зоны.
// Функция чистая и может вызываться конкурентно без синхронизации.
func Contains(boundary []models.Point, p models.Point) (bool, error) {
	if len(boundary) < minBoundaryVertices {
		return false, fmt.Errorf("boundary has %d vertices: %w", len(boundary), models.ErrDegenerateZone)
	}

	n := len(boundary)

	// Сначала проверяем границу: стандартный тест пересечений
	// классифицирует точки на ребре нестабильно.
	for i := 0; i < n; i++ {
		a := boundary[i]
		b := boundary[(i+1)%n]
		if onSegment(a, b, p) {
			return true, nil
		}
	}

	// Трассировка луча: считаем пересечения горизонтального луча из точки
	// с ребрами полигона, нечетное число - точка внутри.
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a := boundary[i]
		b := boundary[j]

		crosses := (a.Lat > p.Lat) != (b.Lat > p.Lat)
		if crosses && p.Lng < (b.Lng-a.Lng)*(p.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lng {
			inside = !inside
		}
	}

	return inside, nil
}

// onSegment проверяет, лежит ли точка p на отрезке ab
func onSegment(a, b, p models.Point) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if cross != 0 {
		return false
	}

	// Коллинеарна - осталось проверить, что p между a и b
	dot := (p.Lng-a.Lng)*(b.Lng-a.Lng) + (p.Lat-a.Lat)*(b.Lat-a.Lat)
	if dot < 0 {
		return false
	}

	lenSq := (b.Lng-a.Lng)*(b.Lng-a.Lng) + (b.Lat-a.Lat)*(b.Lat-a.Lat)
	return dot <= lenSq
}

package scene

import (
	"fmt"
	"strings"
)

// Quality trades detail for drawing cost.
type Quality int

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
	QualityUltra
)

var qualityNames = []string{"low", "medium", "high", "ultra"}

func (q Quality) String() string {
	if q < QualityLow || q > QualityUltra {
		return "unknown"
	}
	return qualityNames[q]
}

// ParseQuality parses a quality name, case-insensitively.
func ParseQuality(s string) (Quality, error) {
	for i, name := range qualityNames {
		if strings.EqualFold(s, name) {
			return Quality(i), nil
		}
	}
	return QualityHigh, fmt.Errorf("unknown quality %q (want low, medium, high or ultra)", s)
}

// Next cycles to the following level, wrapping after ultra.
func (q Quality) Next() Quality {
	return (q + 1) % (QualityUltra + 1)
}

// Detail is the sampling density that a Quality maps to.
type Detail struct {
	StarStride  int // Draw every Nth background star
	DustStride  int
	BeltStride  int // Draw every Nth asteroid
	TailPoints  int
	OrbitRings  bool
	Atmospheres bool
}

// Detail returns the sampling density for q.
func (q Quality) Detail() Detail {
	switch q {
	case QualityLow:
		return Detail{StarStride: 32, DustStride: 50, BeltStride: 8, TailPoints: 10}
	case QualityMedium:
		return Detail{StarStride: 16, DustStride: 25, BeltStride: 4, TailPoints: 25, OrbitRings: true}
	case QualityUltra:
		return Detail{StarStride: 4, DustStride: 5, BeltStride: 1, TailPoints: TailLength, OrbitRings: true, Atmospheres: true}
	default:
		return Detail{StarStride: 8, DustStride: 10, BeltStride: 2, TailPoints: 50, OrbitRings: true, Atmospheres: true}
	}
}

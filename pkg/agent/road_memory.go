package agent

import "lintang/trafficsim/pkg/datastructure"

// RoadMemory maps a road to how desirable a car found it, as a smoothed observed speed.
type RoadMemory map[*datastructure.Road]float64

// Absorb folds the current speed of every road into the memory: (old + speed) / 2, or speed on first sight.
func (m RoadMemory) Absorb(roads []*datastructure.Road) {
	for _, road := range roads {
		if old, ok := m[road]; ok {
			m[road] = (old + road.CurrentSpeed()) / 2
		} else {
			m[road] = road.CurrentSpeed()
		}
	}
}

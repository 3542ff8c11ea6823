// ABOUTME: Aggregate statistics over the stored patients.
// ABOUTME: Reports total count, mean age, and a fixed four-bucket age distribution.
package storage

// AgeBucket is an inclusive age range. Max < 0 means unbounded.
type AgeBucket struct {
	Label string
	Min   int
	Max   int
}

// Buckets lists the age distribution ranges in display order.
var Buckets = []AgeBucket{
	{Label: "0-18", Min: 0, Max: 18},
	{Label: "19-35", Min: 19, Max: 35},
	{Label: "36-55", Min: 36, Max: 55},
	{Label: "56+", Min: 56, Max: -1},
}

// Statistics summarizes the collection.
type Statistics struct {
	TotalPatients   int            `json:"total_patients" yaml:"total_patients"`
	AverageAge      float64        `json:"average_age" yaml:"average_age"`
	AgeDistribution map[string]int `json:"age_distribution" yaml:"age_distribution"`
}

// BucketFor returns the label of the bucket containing age.
// Ages below the first bucket count toward it so the buckets cover every int.
func BucketFor(age int) string {
	for _, b := range Buckets {
		if b.Max < 0 || age <= b.Max {
			return b.Label
		}
	}
	return Buckets[len(Buckets)-1].Label
}

// Statistics computes totals over the current collection.
// AverageAge is not rounded.
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		TotalPatients:   len(s.patients),
		AgeDistribution: make(map[string]int, len(Buckets)),
	}
	for _, b := range Buckets {
		stats.AgeDistribution[b.Label] = 0
	}
	if len(s.patients) == 0 {
		return stats
	}

	sum := 0
	for _, p := range s.patients {
		sum += p.Age
		stats.AgeDistribution[BucketFor(p.Age)]++
	}
	stats.AverageAge = float64(sum) / float64(len(s.patients))
	return stats
}

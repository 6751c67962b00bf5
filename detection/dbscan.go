package detection

// Plain DBSCAN over 3-D feature vectors with an exhaustive neighbor scan;
// the encounter sets this runs on are small enough that a spatial index
// would be overkill.

const (
	labelUnclassified = -2
	labelNoise        = -1
)

// dbscan partitions points into clusters and noise. The returned slice has
// one label per input point: 0..n-1 for cluster membership, labelNoise for
// noise. A point is core when at least minPts points (itself included) lie
// within eps of it. Border points join the cluster of the first core point
// that reaches them in input order, which keeps the partition deterministic
// for a given input order.
func dbscan(points [][3]float64, eps float64, minPts int) []int {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = labelUnclassified
	}

	epsSq := eps * eps
	clusterID := 0

	for i := range points {
		if labels[i] != labelUnclassified {
			continue
		}
		neighbors := regionQuery(points, i, epsSq)
		if len(neighbors) < minPts {
			labels[i] = labelNoise
			continue
		}

		labels[i] = clusterID
		queue := append([]int(nil), neighbors...)
		for head := 0; head < len(queue); head++ {
			j := queue[head]
			if labels[j] == labelNoise {
				// Previously rejected as noise: reachable from a core
				// point, so it becomes a border point of this cluster.
				labels[j] = clusterID
			}
			if labels[j] != labelUnclassified {
				continue
			}
			labels[j] = clusterID
			jNeighbors := regionQuery(points, j, epsSq)
			if len(jNeighbors) >= minPts {
				queue = append(queue, jNeighbors...)
			}
		}
		clusterID++
	}

	return labels
}

// regionQuery returns the indices of every point within sqrt(epsSq) of
// points[i], in input order, i itself included.
func regionQuery(points [][3]float64, i int, epsSq float64) []int {
	var neighbors []int
	p := points[i]
	for j, q := range points {
		d0 := p[0] - q[0]
		d1 := p[1] - q[1]
		d2 := p[2] - q[2]
		if d0*d0+d1*d1+d2*d2 <= epsSq {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

package ports

import "citysim/internal/domain/city"

type SnapshotPublisher interface {
	Publish(snapshot city.Snapshot)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
)

// RegisterProviders registers the metrics registry and collectors with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return err
	}
	if err := container.Provide(func(reg *prometheus.Registry) prometheus.Gatherer {
		return reg
	}); err != nil {
		return err
	}
	if err := container.Provide(func(reg *prometheus.Registry) *ImportMetrics {
		return NewImportMetrics(reg)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(reg *prometheus.Registry) *SearchMetrics {
		return NewSearchMetrics(reg)
	}); err != nil {
		return err
	}
	return nil
}

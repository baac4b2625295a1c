// Package metrics expone los contadores de ventas en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
)

const namespace = "pos"

var _ sales.Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implementa sales.Recorder sobre un registry propio.
// Seguro para uso concurrente.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	salesTotal      prometheus.Counter
	saleLinesTotal  prometheus.Counter
	rejectionsTotal *prometheus.CounterVec
	revenueTotal    prometheus.Counter
	failuresTotal   prometheus.Counter
}

// NewPrometheusRecorder registra las métricas de ventas y las del runtime de Go.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		salesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Transacciones de venta registradas.",
		}),
		saleLinesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_lines_total",
			Help:      "Líneas de venta escritas en el libro.",
		}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_rejections_total",
			Help:      "Ventas rechazadas por tipo de error.",
		}, []string{"kind"}),
		revenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_revenue_total",
			Help:      "Ingreso acumulado de las ventas registradas.",
		}),
		failuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_commit_failures_total",
			Help:      "Ventas revertidas por fallo del almacenamiento.",
		}),
	}
	r.registry.MustRegister(
		r.salesTotal,
		r.saleLinesTotal,
		r.rejectionsTotal,
		r.revenueTotal,
		r.failuresTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *PrometheusRecorder) SaleCreated(lines int, total decimal.Decimal) {
	r.salesTotal.Inc()
	r.saleLinesTotal.Add(float64(lines))
	r.revenueTotal.Add(total.InexactFloat64())
}

// SaleRejected cuenta un rechazo. Una venta con varios errores suma uno por cada tipo.
func (r *PrometheusRecorder) SaleRejected(kind domain.SaleErrorKind) {
	r.rejectionsTotal.WithLabelValues(string(kind)).Inc()
}

func (r *PrometheusRecorder) SaleFailed() {
	r.failuresTotal.Inc()
}

// Registry expone el registry para tests y colectores adicionales.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler sirve /metrics con el registry propio.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// 客户端：后端调用
	BackendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lotes_backend_requests_total",
		Help: "Total backend requests issued by the client, by operation",
	}, []string{"op"})
	BackendFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lotes_backend_fail_total",
		Help: "Total failed backend requests (transport or non-2xx), by operation",
	}, []string{"op"})
	BackendDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lotes_backend_duration_ms",
		Help:    "Backend request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"op"})

	// 客户端：控制器
	ReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lotes_reloads_total",
		Help: "Parcel store reloads by result",
	}, []string{"result"})
	ReservationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lotes_reservations_total",
		Help: "Reservation flow outcomes (reserved, failed, cancelled, dropped, auth_required)",
	}, []string{"outcome"})
	ParcelsShown = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lotes_parcels_shown",
		Help: "Parcels currently held by the client store",
	})

	// 服务端
	ParcelsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lotes_server_parcels_created_total",
		Help: "Parcels created through POST /lotes",
	})
	ParcelsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lotes_server_parcels_deleted_total",
		Help: "Parcels deleted through /lotes/delete and /reset",
	})
	AuthTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lotes_server_auth_total",
		Help: "Login/register attempts by kind and result",
	}, []string{"kind", "result"})
)

func init() {
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendFailTotal)
	prometheus.MustRegister(BackendDurationMs)
	prometheus.MustRegister(ReloadsTotal)
	prometheus.MustRegister(ReservationsTotal)
	prometheus.MustRegister(ParcelsShown)
	prometheus.MustRegister(ParcelsCreatedTotal)
	prometheus.MustRegister(ParcelsDeletedTotal)
	prometheus.MustRegister(AuthTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：服务端挂载到 /metrics；客户端在配置了指标地址时单独监听
func Handler() http.Handler { return promhttp.Handler() }

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersCreatedTotal prometheus.Counter
	CustomersUpdatedTotal prometheus.Counter
	CustomersDeletedTotal prometheus.Counter
	EmploymentsAddedTotal prometheus.Counter
	CreditUpsertsTotal    *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_service_db_query_duration_seconds",
				Help:    "Histogram of store query latencies.",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_service_customers_created_total",
				Help: "Total number of customers successfully created.",
			},
		),
		CustomersUpdatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_service_customers_updated_total",
				Help: "Total number of customers successfully updated.",
			},
		),
		CustomersDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_service_customers_deleted_total",
				Help: "Total number of customers soft deleted.",
			},
		),
		EmploymentsAddedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_service_employments_added_total",
				Help: "Total number of employment records added.",
			},
		),
		CreditUpsertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_service_credit_upserts_total",
				Help: "Total number of credit history writes, by whether a record was created.",
			},
			[]string{"action"},
		),
	}
)

// ObserveDBQuery times a store call. Use it as: defer monitoring.ObserveDBQuery("name", time.Now(), &err).
func ObserveDBQuery(queryName string, start time.Time, err *error) {
	status := "success"
	if err != nil && *err != nil {
		status = "error"
	}
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(time.Since(start).Seconds())
}

func RecordCustomerCreated() {
	Business.CustomersCreatedTotal.Inc()
}

func RecordCustomerUpdated() {
	Business.CustomersUpdatedTotal.Inc()
}

func RecordCustomerDeleted() {
	Business.CustomersDeletedTotal.Inc()
}

func RecordEmploymentAdded() {
	Business.EmploymentsAddedTotal.Inc()
}

func RecordCreditUpsert(created bool) {
	action := "updated"
	if created {
		action = "created"
	}
	Business.CreditUpsertsTotal.WithLabelValues(action).Inc()
}

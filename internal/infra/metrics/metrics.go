package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spatrac/spatrac/internal/csvimport"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/store"
)

type Metrics struct {
	Mutations     *prometheus.CounterVec
	ImportRecords *prometheus.CounterVec
	ImportFiles   *prometheus.CounterVec
	Assigned      *prometheus.GaugeVec
}

func New(reg prometheus.Registerer, st *store.Store) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spatrac_store_mutations_total",
				Help: "Store mutations by operation",
			},
			[]string{"op"},
		),
		ImportRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spatrac_import_records_total",
				Help: "Records handed to the store by file imports",
			},
			[]string{"kind", "outcome"},
		),
		ImportFiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spatrac_import_files_total",
				Help: "Imported files by outcome",
			},
			[]string{"kind", "outcome"},
		),
		Assigned: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spatrac_products_by_department",
				Help: "Products currently assigned to each department",
			},
			[]string{"department"},
		),
	}

	productCount := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "spatrac_products", Help: "Products in the store"},
		func() float64 { return float64(len(st.Products())) },
	)
	recipeCount := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "spatrac_recipes", Help: "Recipes in the store"},
		func() float64 { return float64(len(st.Recipes())) },
	)

	reg.MustRegister(m.Mutations, m.ImportRecords, m.ImportFiles, m.Assigned, productCount, recipeCount)
	m.setAssigned(st.Products())
	return m
}

// Attach counts every store change. Handlers only touch collectors.
func (m *Metrics) Attach(st *store.Store) error {
	if err := st.Subscribe(store.TopicProducts, m.onChange); err != nil {
		return err
	}
	return st.Subscribe(store.TopicRecipes, m.onChange)
}

func (m *Metrics) onChange(c store.Change) {
	m.Mutations.WithLabelValues(string(c.Op)).Inc()
	if c.Snapshot != nil {
		m.setAssigned(c.Snapshot.Products)
	}
}

func (m *Metrics) setAssigned(list []products.Product) {
	counts := map[products.Department]int{}
	for _, p := range list {
		counts[p.Department]++
	}
	for _, d := range products.Departments {
		m.Assigned.WithLabelValues(string(d)).Set(float64(counts[d]))
	}
}

// ObserveImport has the csvimport.Observer signature.
func (m *Metrics) ObserveImport(kind csvimport.Kind, success bool, count int) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.ImportFiles.WithLabelValues(string(kind), outcome).Inc()
	m.ImportRecords.WithLabelValues(string(kind), outcome).Add(float64(count))
}

package optable

// tableConfig holds the knobs buildConstraints derives operation-table
// constraints from, assembled through the functional-options pattern used
// throughout this module.
type tableConfig struct {
	maxRangeFactor float64
	maxCardinality int
}

const (
	// defaultMaxRangeFactor is large enough that, by the triangle
	// inequality, a factor this far above 2 never actually binds
	// MaxFlyConstraint unless the caller opts into a tighter factor.
	defaultMaxRangeFactor = 1e9
	// defaultMaxCardinality < 0 means unrestricted truck-only stop count.
	defaultMaxCardinality = -1
)

// TableOption configures Build via newTableConfig.
type TableOption func(*tableConfig)

// WithMaxRangeFactor sets the drone-range factor: maxFly becomes factor
// times the instance's longest single drone leg.
func WithMaxRangeFactor(factor float64) TableOption {
	return func(c *tableConfig) { c.maxRangeFactor = factor }
}

// WithMaxCardinality caps the number of truck-only stops per operation;
// negative means unrestricted.
func WithMaxCardinality(k int) TableOption {
	return func(c *tableConfig) { c.maxCardinality = k }
}

func newTableConfig(opts ...TableOption) tableConfig {
	cfg := tableConfig{
		maxRangeFactor: defaultMaxRangeFactor,
		maxCardinality: defaultMaxCardinality,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
